package csvresponse_test

import (
	"fmt"
	"strings"

	"github.com/drblury/csvweaver/csvresponse"
)

func ExampleBuild() {
	rows := []csvresponse.Record{
		{{Name: "name", Value: "Alice"}, {Name: "age", Value: 30}},
		{{Name: "name", Value: "Bob"}, {Name: "age", Value: 25}},
	}

	resp, err := csvresponse.Build(rows, csvresponse.WithAttachment("people.csv"))
	if err != nil {
		fmt.Println("build error:", err)
		return
	}

	fmt.Println(resp.Status)
	fmt.Println(resp.Header.Get("Content-Type"))
	fmt.Println(resp.Header.Get("Content-Disposition"))
	fmt.Println(strings.ReplaceAll(string(resp.Body), "\r\n", "|"))

	// Output:
	// 200
	// text/csv; charset=WINDOWS-1252
	// attachment; filename=people.csv
	// name,age|Alice,30|Bob,25
}

func ExampleBuild_empty() {
	resp, _ := csvresponse.Build([]csvresponse.Record{})
	fmt.Println(resp.Status, len(resp.Body), len(resp.Header))

	// Output:
	// 204 0 0
}

func ExampleDecodeRows() {
	rows, err := csvresponse.DecodeRows([]byte(`[{"sku":"A-1","note":"fits \"small\""}]`))
	if err != nil {
		fmt.Println("decode error:", err)
		return
	}

	resp, err := csvresponse.Build(rows, csvresponse.WithQuoted(true), csvresponse.WithDelimiter(";"))
	if err != nil {
		fmt.Println("build error:", err)
		return
	}
	fmt.Println(strings.ReplaceAll(string(resp.Body), "\r\n", "|"))

	// Output:
	// "sku";"note"|"A-1";"fits ""small"""
}
