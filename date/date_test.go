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

package date

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDate(t *testing.T) {
	t.Parallel()

	Convey("Date works correctly", t, func() {
		Convey("Parse and String", func() {
			d, err := Parse("2020-01-06")
			So(err, ShouldBeNil)
			So(d, ShouldResemble, New(2020, 1, 6))
			So(d.String(), ShouldEqual, "2020-01-06")

			d, err = Parse("")
			So(err, ShouldBeNil)
			So(d.IsZero(), ShouldBeTrue)

			_, err = Parse("2020-1-6")
			So(err, ShouldNotBeNil)
			_, err = Parse("2020-02-30")
			So(err, ShouldNotBeNil)
		})

		Convey("Comparisons", func() {
			So(New(2020, 1, 2).Before(New(2020, 1, 3)), ShouldBeTrue)
			So(New(2020, 1, 3).Before(New(2020, 1, 3)), ShouldBeFalse)
			So(New(2021, 1, 1).After(New(2020, 12, 31)), ShouldBeTrue)
			So(New(2020, 2, 1).After(New(2020, 1, 31)), ShouldBeTrue)
		})

		Convey("AddDays crosses month and year boundaries", func() {
			So(New(2020, 12, 31).AddDays(1), ShouldResemble, New(2021, 1, 1))
			So(New(2020, 3, 1).AddDays(-1), ShouldResemble, New(2020, 2, 29))
		})

		Convey("ToTime and FromTime", func() {
			d := New(2020, 1, 15)
			So(d.ToTime(), ShouldEqual, time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC))
			So(FromTime(d.ToTime()), ShouldResemble, d)
		})

		Convey("InRange", func() {
			d := New(2020, 1, 8)
			So(d.InRange(New(2020, 1, 8), New(2020, 1, 8)), ShouldBeTrue)
			So(d.InRange(Date{}, New(2020, 1, 7)), ShouldBeFalse)
			So(d.InRange(New(2020, 1, 1), Date{}), ShouldBeTrue)
			So(Date{}.InRange(Date{}, Date{}), ShouldBeFalse)
		})

		Convey("Text marshaling", func() {
			var d Date
			So(d.UnmarshalText([]byte("2020-01-02")), ShouldBeNil)
			So(d, ShouldResemble, New(2020, 1, 2))
			b, err := d.MarshalText()
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "2020-01-02")
			So(d.UnmarshalText([]byte("bad")), ShouldNotBeNil)
		})
	})
}
