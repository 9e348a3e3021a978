package category_test

import (
	"errors"
	"testing"

	"github.com/okian/attrition/internal/domain/category"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTrainingMaps(t *testing.T) {
	Convey("Given the training-time category maps", t, func() {
		expected := map[string][]string{
			category.FieldBusinessTravel: {"Non-Travel", "Travel_Rarely", "Travel_Frequently"},
			category.FieldDepartment:     {"Human Resources", "Research & Development", "Sales"},
			category.FieldEducationField: {"Human Resources", "Life Sciences", "Marketing", "Medical", "Other", "Technical Degree"},
			category.FieldGender:         {"Female", "Male"},
			category.FieldJobRole: {
				"Healthcare Representative", "Human Resources", "Laboratory Technician",
				"Manager", "Manufacturing Director", "Research Director",
				"Research Scientist", "Sales Executive", "Sales Representative",
			},
			category.FieldMaritalStatus: {"Divorced", "Married", "Single"},
			category.FieldOverTime:      {"No", "Yes"},
		}
		codec := category.Default()

		Convey("Then there are exactly seven categorical fields", func() {
			So(codec.Fields(), ShouldHaveLength, 7)
		})

		Convey("Then every map is a bijection onto 0..n-1 in listed order", func() {
			for field, values := range expected {
				seen := make(map[int]bool, len(values))
				for i, v := range values {
					code, err := codec.Encode(field, v)
					So(err, ShouldBeNil)
					So(code, ShouldEqual, i)
					So(seen[code], ShouldBeFalse)
					seen[code] = true

					name, err := codec.Decode(field, code)
					So(err, ShouldBeNil)
					So(name, ShouldEqual, v)
				}
				got, err := codec.Values(field)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, values)
			}
		})

		Convey("Then overtime encodes No as 0 and Yes as 1", func() {
			no, err := category.OverTime.Encode("No")
			So(err, ShouldBeNil)
			So(no, ShouldEqual, 0)
			yes, err := category.OverTime.Encode("Yes")
			So(err, ShouldBeNil)
			So(yes, ShouldEqual, 1)
		})
	})
}

func TestUnknownCategory(t *testing.T) {
	Convey("Given the default codec", t, func() {
		codec := category.Default()

		Convey("When encoding a department outside the domain", func() {
			_, err := codec.Encode(category.FieldDepartment, "Engineering")

			Convey("Then it fails with an unknown category error", func() {
				So(errors.Is(err, category.ErrUnknownCategory), ShouldBeTrue)
				var uce *category.UnknownCategoryError
				So(errors.As(err, &uce), ShouldBeTrue)
				So(uce.Field, ShouldEqual, category.FieldDepartment)
				So(uce.Value, ShouldEqual, "Engineering")
			})
		})

		Convey("When encoding with different casing", func() {
			_, err := codec.Encode(category.FieldOverTime, "yes")

			Convey("Then the domain is matched exactly", func() {
				So(errors.Is(err, category.ErrUnknownCategory), ShouldBeTrue)
			})
		})

		Convey("When encoding an unknown field", func() {
			_, err := codec.Encode("shoe_size", "42")

			Convey("Then it fails with an unknown category error", func() {
				So(errors.Is(err, category.ErrUnknownCategory), ShouldBeTrue)
			})
		})

		Convey("When decoding a code out of range", func() {
			_, err := codec.Decode(category.FieldGender, 2)

			Convey("Then it fails", func() {
				So(errors.Is(err, category.ErrUnknownCategory), ShouldBeTrue)
			})
		})
	})
}

func TestMapImmutability(t *testing.T) {
	Convey("Given a map's value list", t, func() {
		values := category.MaritalStatus.Values()

		Convey("When the caller mutates the returned slice", func() {
			values[0] = "Widowed"

			Convey("Then the map is unaffected", func() {
				So(category.MaritalStatus.Contains("Divorced"), ShouldBeTrue)
				So(category.MaritalStatus.Contains("Widowed"), ShouldBeFalse)
			})
		})
	})
}
