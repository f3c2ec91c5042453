// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package download

import (
	"fmt"
	"strings"
)

// YearRange returns the inclusive bounds of a calendar year.
func YearRange(year int) (start, end string) {
	return fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year)
}

// DefaultFileName is the output file name for a ticker: the lowercased ticker
// without its exchange suffix followed by "_prc", and by the year when it is
// non-zero. For example, QAN.AX in 2020 is "qan_prc_2020.csv".
func DefaultFileName(ticker string, year int) string {
	base := strings.ToLower(ticker)
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	if year == 0 {
		return base + "_prc.csv"
	}
	return fmt.Sprintf("%s_prc_%d.csv", base, year)
}
