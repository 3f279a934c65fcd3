package jsonutil_test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/drblury/csvweaver/jsonutil"
)

func Example() {
	type exportJob struct {
		Dataset   string `json:"dataset"`
		Rows      int    `json:"rows"`
		Delimiter string `json:"delimiter"`
	}

	job := exportJob{Dataset: "orders", Rows: 42, Delimiter: ";"}

	data, _ := jsonutil.Marshal(job)
	fmt.Println(string(data))

	var decoded exportJob
	_ = jsonutil.Unmarshal(data, &decoded)
	fmt.Println(decoded.Rows)

	buf := &bytes.Buffer{}
	_ = jsonutil.Encode(buf, job)

	var streamed exportJob
	_ = jsonutil.Decode(buf, &streamed)
	fmt.Println(streamed.Delimiter)

	// Output:
	// {"dataset":"orders","rows":42,"delimiter":";"}
	// 42
	// ;
}

func ExampleMarshalIndent() {
	type dataset struct {
		Name    string   `json:"name"`
		Columns []string `json:"columns"`
	}

	data, err := jsonutil.MarshalIndent(dataset{Name: "orders", Columns: []string{"sku", "qty"}}, "", "  ")
	if err != nil {
		fmt.Println("marshal error:", err)
		return
	}
	fmt.Println(strings.TrimSpace(string(data)))

	// Output:
	// {
	//   "name": "orders",
	//   "columns": [
	//     "sku",
	//     "qty"
	//   ]
	// }
}
