package csvresponse

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubStringer struct{}

func (stubStringer) String() string { return "stringer" }

func TestCellString(t *testing.T) {
	oid, err := primitive.ObjectIDFromHex("65f0c0ffee0000000000abcd")
	if err != nil {
		t.Fatalf("invalid object id: %v", err)
	}
	when := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	text := "pointed"
	var nilPtr *string

	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string", in: "abc", want: "abc"},
		{name: "bytes", in: []byte("raw"), want: "raw"},
		{name: "bool", in: true, want: "true"},
		{name: "int", in: 42, want: "42"},
		{name: "uint8", in: uint8(7), want: "7"},
		{name: "negative int64", in: int64(-9), want: "-9"},
		{name: "float", in: 0.1, want: "0.1"},
		{name: "whole float", in: 1e6, want: "1000000"},
		{name: "float32", in: float32(2.5), want: "2.5"},
		{name: "time", in: when, want: "2024-03-09T14:05:00Z"},
		{name: "object id", in: oid, want: "65f0c0ffee0000000000abcd"},
		{name: "bson datetime", in: primitive.NewDateTimeFromTime(when), want: "2024-03-09T14:05:00Z"},
		{name: "bson null", in: primitive.Null{}, want: ""},
		{name: "stringer", in: stubStringer{}, want: "stringer"},
		{name: "error", in: errors.New("failed"), want: "failed"},
		{name: "pointer", in: &text, want: "pointed"},
		{name: "nil pointer", in: nilPtr, want: ""},
		{name: "fallback", in: []int{1, 2}, want: "[1 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cellString(tt.in))
		})
	}
}

func TestRowDataToCSVString(t *testing.T) {
	cells := []string{"a", `b"c`, ""}
	assert.Equal(t, `a|b"c|`, rowDataToCSVString(cells, "|", false))
	assert.Equal(t, `"a"|"b""c"|""`, rowDataToCSVString(cells, "|", true))
	assert.Equal(t, "", rowDataToCSVString(nil, ",", true))
}

func TestCreateCSVHeaders(t *testing.T) {
	header := createCSVHeaders(map[string]string{"content-encoding": "identity"}, "ISO-8859-15")
	assert.Equal(t, "text/csv; charset=ISO-8859-15", header.Get("Content-Type"))
	assert.Equal(t, "identity", header.Get("Content-Encoding"))
	assert.Len(t, header, 4)
}

func TestGetRowDataRejectsNestedSerializer(t *testing.T) {
	_, err := getRowData(3, chainedRow{})
	var re *InvalidRowError
	if assert.ErrorAs(t, err, &re) {
		assert.Equal(t, 3, re.Index)
	}
}

type chainedRow struct{}

func (chainedRow) CSVRow() (any, error) { return chainedRow{}, nil }
