package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripsplit/internal/ledger"
)

const tripJSON = `{
  "participants": ["ada", "ben", "cleo"],
  "expenses": [
    {"payer": "ada", "amount": "30.01", "beneficiaries": ["ben", "ada", "cleo"], "activity": "museum"},
    {"payer": "ben", "amount": 10, "shares": [{"participant": "cleo", "amount": "7.50"}, {"participant": "ada", "amount": "2.50"}]}
  ],
  "payments": [{"from": "cleo", "to": "ada", "amount": "5"}]
}`

func TestRun_JSON(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"-json", "-"}, strings.NewReader(tripJSON), &out)
	require.NoError(t, err)

	var r report
	require.NoError(t, json.Unmarshal(out.Bytes(), &r))

	// ada: +30.01 -10.00 -2.50 -5.00 = 12.51
	// ben: +10.00 -10.01 = -0.01
	// cleo: -10.00 -7.50 +5.00 = -12.50
	assert.Equal(t, []balanceLine{
		{Participant: "ada", Paid: "30.01", Share: "17.50", Net: "12.51"},
		{Participant: "ben", Paid: "10.00", Share: "10.01", Net: "-0.01"},
		{Participant: "cleo", Paid: "5.00", Share: "17.50", Net: "-12.50"},
	}, r.Balances)
	assert.Equal(t, []transferLine{
		{From: "cleo", To: "ada", Amount: "12.50"},
		{From: "ben", To: "ada", Amount: "0.01"},
	}, r.Transfers)
}

func TestRun_Text(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trip.json")
	require.NoError(t, os.WriteFile(path, []byte(tripJSON), 0o600))

	var out bytes.Buffer
	require.NoError(t, run([]string{path}, nil, &out))

	text := out.String()
	assert.Contains(t, text, "PARTICIPANT")
	assert.Contains(t, text, "cleo -> ada  12.50")
	assert.Contains(t, text, "ben -> ada  0.01")
}

func TestRun_Settled(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"-"}, strings.NewReader(`{"expenses": [{"payer": "ada", "amount": "4.20", "beneficiaries": ["ada"]}]}`), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Everyone is settled.")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "too precise",
			input: `{"expenses": [{"payer": "ada", "amount": "1.005", "beneficiaries": ["ada"]}]}`,
			want:  "expense 1",
		},
		{
			name:  "unknown field",
			input: `{"expenses": [], "currency": "EUR"}`,
			want:  "decode trip",
		},
		{
			name:  "not on roster",
			input: `{"participants": ["ada"], "expenses": [{"payer": "ada", "amount": "1", "beneficiaries": ["zed"]}]}`,
			want:  `beneficiary "zed" is not on the roster`,
		},
		{
			name:  "payment to self",
			input: `{"payments": [{"from": "ada", "to": "ada", "amount": "1"}]}`,
			want:  "payment 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run([]string{"-"}, strings.NewReader(tt.input), &out)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("validation errors keep their type", func(t *testing.T) {
		err := run([]string{"-"}, strings.NewReader(`{"expenses": [{"payer": "", "amount": "1", "beneficiaries": ["ada"]}]}`), &bytes.Buffer{})
		assert.ErrorIs(t, err, ledger.ErrValidation)
	})

	t.Run("missing argument", func(t *testing.T) {
		assert.Error(t, run(nil, nil, &bytes.Buffer{}))
	})
}
