package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

// TestJobs verifies the array extraction contract:
// 1. A valid array round-trips unchanged
// 2. Missing spans and malformed spans degrade to an empty slice
// 3. Nested values inside jobs do not break span detection
func TestJobs(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []Job
		ok       bool
	}{
		{
			name: "clean array",
			text: `[{"origin":"Tekirdağ Çorlu","destination":"Ankara","vehicle_type":"TIR","body_type":"KAPALI","weight":"15ton"}]`,
			expected: []Job{{
				Origin:      "Tekirdağ Çorlu",
				Destination: "Ankara",
				Weight:      "15ton",
				VehicleType: "TIR",
				BodyType:    "KAPALI",
			}},
			ok: true,
		},
		{
			name: "array surrounded by prose",
			text: "İşte sonuç:\n[{\"origin\":\"Hatay\",\"destination\":\"İstanbul Tuzla\"}]\nBaşka yük yok.",
			expected: []Job{{
				Origin:      "Hatay",
				Destination: "İstanbul Tuzla",
			}},
			ok: true,
		},
		{
			name: "multiple jobs with duplicates kept",
			text: `[{"origin":"Kayseri"},{"origin":"Kayseri"}]`,
			expected: []Job{
				{Origin: "Kayseri"},
				{Origin: "Kayseri"},
			},
			ok: true,
		},
		{
			name:     "no bracket span",
			text:     "Mesajda yük bilgisi bulunamadı.",
			expected: []Job{},
			ok:       false,
		},
		{
			name:     "malformed span",
			text:     `[{"origin":}]`,
			expected: []Job{},
			ok:       false,
		},
		{
			name:     "unterminated span",
			text:     `[{"origin":"Bursa"`,
			expected: []Job{},
			ok:       false,
		},
		{
			name:     "empty array",
			text:     `[]`,
			expected: []Job{},
			ok:       true,
		},
		{
			name:     "brackets inside string values",
			text:     `[{"origin":"Antalya [merkez]","phone":"05015971849"}]`,
			expected: []Job{{Origin: "Antalya [merkez]", Phone: "05015971849"}},
			ok:       true,
		},
		{
			name:     "extra fields ignored",
			text:     `[{"origin":"Konya","price":"12000"}]`,
			expected: []Job{{Origin: "Konya"}},
			ok:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, ok := Jobs(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, jobs)
			assert.NotNil(t, jobs)
		})
	}
}

// TestIntentFrom verifies the object extraction contract, including the
// fixed fallback shape on failure and the "search" default.
func TestIntentFrom(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected Intent
		ok       bool
	}{
		{
			name: "full object",
			text: `{"intent":"search","origin":"istanbul","destination":"ankara","vehicle_type":"tir","cargo_type":null}`,
			expected: Intent{
				Intent:      IntentSearch,
				Origin:      strptr("istanbul"),
				Destination: strptr("ankara"),
				VehicleType: strptr("tir"),
			},
			ok: true,
		},
		{
			name:     "intent defaults to search when absent",
			text:     `{"origin":"izmir","destination":"bursa"}`,
			expected: Intent{Intent: IntentSearch, Origin: strptr("izmir"), Destination: strptr("bursa")},
			ok:       true,
		},
		{
			name:     "object surrounded by prose",
			text:     "Tabii, analiz:\n{\"intent\":\"greeting\"}\n",
			expected: Intent{Intent: IntentGreeting},
			ok:       true,
		},
		{
			name:     "no brace span falls back",
			text:     "merhaba nasılsın",
			expected: Intent{Intent: IntentOther},
			ok:       false,
		},
		{
			name:     "malformed object falls back",
			text:     `{"intent":"search",}`,
			expected: Intent{Intent: IntentOther},
			ok:       false,
		},
		{
			name:     "nested braces handled",
			text:     `{"intent":"search","origin":"adana","meta":{"score":0.9}}`,
			expected: Intent{Intent: IntentSearch, Origin: strptr("adana")},
			ok:       true,
		},
		{
			name:     "braces inside strings handled",
			text:     `{"intent":"other","cargo_type":"paket {kırılgan}"}`,
			expected: Intent{Intent: IntentOther, CargoType: strptr("paket {kırılgan}")},
			ok:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IntentFrom(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestBalancedSpan(t *testing.T) {
	span, ok := balancedSpan(`x [1, [2, 3], 4] y [5]`, '[', ']')
	require.True(t, ok)
	assert.Equal(t, `[1, [2, 3], 4]`, span)

	_, ok = balancedSpan("no brackets here", '[', ']')
	assert.False(t, ok)

	_, ok = balancedSpan(`["unterminated`, '[', ']')
	assert.False(t, ok)

	span, ok = balancedSpan(`{"a":"]"}`, '{', '}')
	require.True(t, ok)
	assert.Equal(t, `{"a":"]"}`, span)
}
