package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTextCoercesNonStrings(t *testing.T) {
	cases := []struct {
		name string
		body string
		want ChatRequest
	}{
		{"strings", `{"grado":"3","tema":"fracciones"}`, ChatRequest{Grade: "3", Topic: "fracciones"}},
		{"number", `{"grado":3,"tema":"fracciones"}`, ChatRequest{Grade: "", Topic: "fracciones"}},
		{"bool", `{"grado":"3","tema":true}`, ChatRequest{Grade: "3", Topic: ""}},
		{"object", `{"grado":{"a":1},"tema":[1,2]}`, ChatRequest{Grade: "", Topic: ""}},
		{"null", `{"grado":null,"tema":null}`, ChatRequest{Grade: "", Topic: ""}},
		{"absent", `{}`, ChatRequest{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req ChatRequest
			require.NoError(t, json.Unmarshal([]byte(tc.body), &req))
			require.Equal(t, tc.want, req)
		})
	}
}
