package dto

import (
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceURI_SafeID(t *testing.T) {
	tests := []struct {
		ref   string
		valid bool
	}{
		{"TXN_01HV3Z8Q9K2M4N6P8R0T2V4X6Z", true},
		{"ref-001.a", true},
		{"ref 001", false},
		{"ref/../../etc", false},
		{"<script>", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(ReferenceURI{Reference: tt.ref})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestHistoryQuery_Validation(t *testing.T) {
	assert.NoError(t, binding.Validator.ValidateStruct(HistoryQuery{From: "2024-03-01", To: "2024-03-02T10:00:00Z"}))
	assert.Error(t, binding.Validator.ValidateStruct(HistoryQuery{From: "01/03/2024"}))
	assert.Error(t, binding.Validator.ValidateStruct(HistoryQuery{Currency: "NAIRA"}))
	assert.Error(t, binding.Validator.ValidateStruct(HistoryQuery{Page: -1}))
}

func TestHistoryQuery_Filter(t *testing.T) {
	q := HistoryQuery{
		Type:     " Funding ",
		Status:   "SUCCESS",
		Currency: "ngn",
		From:     "2024-03-01",
		To:       "2024-03-02",
		Search:   "  top up ",
		Page:     2,
		Limit:    25,
	}

	f, err := q.Filter()
	require.NoError(t, err)
	assert.Equal(t, domain.EntryTypeFunding, f.Type)
	assert.Equal(t, domain.EntryStatusSuccess, f.Status)
	assert.Equal(t, domain.CurrencyNGN, f.Currency)
	assert.Equal(t, "top up", f.Search)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 25, f.Limit)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *f.From)
	assert.Equal(t, time.Date(2024, 3, 2, 23, 59, 59, 999999999, time.UTC), *f.To)
}

func TestHistoryQuery_FilterKeepsExactTo(t *testing.T) {
	f, err := HistoryQuery{To: "2024-03-02T10:00:00Z"}.Filter()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC), *f.To)
	assert.Nil(t, f.From)
}
