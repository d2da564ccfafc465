package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"incidentmap/internal/models"
)

func TestIncident(t *testing.T) {
	cases := []struct {
		name     string
		incident models.Incident
		expected string
	}{
		{
			name:     "plain identifier",
			incident: models.Incident{ID: "Outage 42", Source: "ERP Sever"},
			expected: "incidents/erp-sever/outage-42.json",
		},
		{
			name:     "url identifier",
			incident: models.Incident{ID: "https://toplo.bg/accidents/123/", Source: "toplo"},
			expected: "incidents/toplo/toplo.bg-accidents-123.json",
		},
		{
			name:     "url with query",
			incident: models.Incident{ID: "https://api.example.com/closures?id=7", Source: "roads"},
			expected: "incidents/roads/api.example.com-closures-id-7.json",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Incident(tc.incident))
		})
	}
}
