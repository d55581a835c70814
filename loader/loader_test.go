package loader_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "abandon-analyzer/errors"
	"abandon-analyzer/loader"
	"abandon-analyzer/models"
)

func TestLoadInbound(t *testing.T) {
	csvData := `Phone,Answered/Hungup,Wait Time at ACD,Call Time,Queue Name,Username,User Disposition Code,User Talk Time
5551234567,HUNGUP,00:00:45,08-18-2025 10:00:00 AM,Support,agent1,MI,00:00:00
5559876543,ANSWERED,00:00:05,08-18-2025 11:00:00 AM,Support,agent2,PQC,00:03:00
`

	records, issues, err := loader.LoadInbound(strings.NewReader(csvData))

	require.NoError(t, err)
	assert.Empty(t, issues)
	require.Len(t, records, 2)

	assert.Equal(t, models.SourceInboundQueue, records[0].Source)
	assert.Equal(t, "5551234567", records[0].Phone)
	assert.Equal(t, "HUNGUP", records[0].AnsweredHungup)
	assert.Equal(t, "00:00:45", records[0].WaitTime)
	assert.Equal(t, "08-18-2025 10:00:00 AM", records[0].CallTime)
	assert.Equal(t, "Support", records[0].Queue)
	assert.Equal(t, "agent1", records[0].Agent)
	assert.Equal(t, "MI", records[0].Disposition)
}

func TestLoadOutbound(t *testing.T) {
	csvData := `Phone,Call Type,System Disposition,Call Time,Disposition Code,User Name,User Talk Time
5551234567,outbound.manual.dial,CONNECTED,08-19-2025 02:00:00 PM,MI,agent3,00:02:00
`

	records, issues, err := loader.LoadOutbound(strings.NewReader(csvData))

	require.NoError(t, err)
	assert.Empty(t, issues)
	require.Len(t, records, 1)

	assert.Equal(t, models.SourceOutboundDialer, records[0].Source)
	assert.Equal(t, "outbound.manual.dial", records[0].CallType)
	assert.Equal(t, "CONNECTED", records[0].SystemDisposition)
	assert.Equal(t, "MI", records[0].Disposition)
	assert.Equal(t, "agent3", records[0].Agent)
}

func TestLoadInboundHeaderMatching(t *testing.T) {
	tests := map[string]struct {
		header   string
		expected string // loaded Phone value
	}{
		"ExactMatch": {
			header:   "Phone",
			expected: "5551234567",
		},
		"CaseInsensitiveMatch": {
			header:   "PHONE",
			expected: "5551234567",
		},
		"SubstringMatch": {
			header:   "Customer Phone Number",
			expected: "5551234567",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			csvData := tc.header + ",Answered/Hungup,Wait Time at ACD,Call Time,Queue Name,Username,User Disposition Code,User Talk Time\n" +
				"5551234567,HUNGUP,00:00:45,08-18-2025 10:00:00 AM,Support,agent1,MI,00:00:00\n"

			records, issues, err := loader.LoadInbound(strings.NewReader(csvData))

			require.NoError(t, err)
			assert.Empty(t, issues)
			require.Len(t, records, 1)
			assert.Equal(t, tc.expected, records[0].Phone)
		})
	}
}

func TestLoadInboundMissingColumn(t *testing.T) {
	// No queue column anywhere: one MissingColumn issue for the file,
	// empty default on every record.
	csvData := `Phone,Answered/Hungup,Wait Time at ACD,Call Time,Username,User Disposition Code,User Talk Time
5551234567,HUNGUP,00:00:45,08-18-2025 10:00:00 AM,agent1,MI,00:00:00
5559876543,HUNGUP,00:00:50,08-18-2025 11:00:00 AM,agent2,MI,00:00:00
`

	records, issues, err := loader.LoadInbound(strings.NewReader(csvData))

	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, apperrors.KindMissingColumn, issues[0].Kind)
	assert.Contains(t, issues[0].Detail, "Queue Name")

	require.Len(t, records, 2)
	assert.Empty(t, records[0].Queue)
	assert.Equal(t, "5551234567", records[0].Phone)
}

func TestLoadInboundShortRow(t *testing.T) {
	csvData := `Phone,Answered/Hungup,Wait Time at ACD,Call Time,Queue Name,Username,User Disposition Code,User Talk Time
5551234567,HUNGUP
`

	records, issues, err := loader.LoadInbound(strings.NewReader(csvData))

	require.NoError(t, err)
	assert.Empty(t, issues)
	require.Len(t, records, 1)
	assert.Equal(t, "5551234567", records[0].Phone)
	assert.Equal(t, "HUNGUP", records[0].AnsweredHungup)
	assert.Empty(t, records[0].CallTime)
}

func TestLoadInboundTrimsCells(t *testing.T) {
	csvData := "Phone,Answered/Hungup,Wait Time at ACD,Call Time,Queue Name,Username,User Disposition Code,User Talk Time\n" +
		"  5551234567\t,HUNGUP ,00:00:45,08-18-2025 10:00:00 AM,Support,agent1,MI,00:00:00\n"

	records, _, err := loader.LoadInbound(strings.NewReader(csvData))

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "5551234567", records[0].Phone)
	assert.Equal(t, "HUNGUP", records[0].AnsweredHungup)
}

func TestLoadInboundEmptyFile(t *testing.T) {
	records, issues, err := loader.LoadInbound(strings.NewReader(""))

	assert.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, issues)
}

func TestLoadInboundHeaderOnly(t *testing.T) {
	csvData := "Phone,Answered/Hungup,Wait Time at ACD,Call Time,Queue Name,Username,User Disposition Code,User Talk Time\n"

	records, issues, err := loader.LoadInbound(strings.NewReader(csvData))

	assert.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, issues)
}
