package query_test

import (
	"testing"

	"github.com/drborges/river/query"
	. "github.com/smartystreets/goconvey/convey"
)

type person struct {
	Name string
	Age  int
}

func TestCompile(t *testing.T) {
	Convey("Given a document filtering scalar values by a bare literal", t, func() {
		pred, err := query.Compile(query.Doc{"$value": 3})
		So(err, ShouldBeNil)

		Convey("It implies $eq", func() {
			So(pred(3), ShouldBeTrue)
			So(pred(4), ShouldBeFalse)
		})
	})

	Convey("Given a document with ordered operators over a struct field", t, func() {
		pred, err := query.Compile(query.Doc{"Age": query.Doc{"$gte": 18, "$lt": 65}})
		So(err, ShouldBeNil)

		Convey("Only in-range ages match", func() {
			So(pred(person{Name: "a", Age: 17}), ShouldBeFalse)
			So(pred(person{Name: "b", Age: 18}), ShouldBeTrue)
			So(pred(person{Name: "c", Age: 64}), ShouldBeTrue)
			So(pred(person{Name: "d", Age: 65}), ShouldBeFalse)
		})
	})

	Convey("Given a document using $in", t, func() {
		pred, err := query.Compile(query.Doc{"Name": query.Doc{"$in": []string{"a", "b"}}})
		So(err, ShouldBeNil)

		Convey("Membership is matched", func() {
			So(pred(person{Name: "a"}), ShouldBeTrue)
			So(pred(person{Name: "z"}), ShouldBeFalse)
		})
	})

	Convey("Given a document with an unsupported operator", t, func() {
		_, err := query.Compile(query.Doc{"Age": query.Doc{"$weird": 1}})

		Convey("Compile fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
