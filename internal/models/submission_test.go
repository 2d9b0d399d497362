package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerValuesPerKind(t *testing.T) {
	cases := []struct {
		name    string
		kind    SubmissionKind
		content string
		want    []float64
	}{
		{name: "assessment", kind: KindAssessment, content: `{"answers":[4,3,2]}`, want: []float64{4, 3, 2}},
		{name: "observation", kind: KindObservation, content: `{"answers":[1,2],"notes":"aktif di kelompok"}`, want: []float64{1, 2}},
		{name: "journal", kind: KindJournal, content: `{"answers":[3],"reflection":"hari ini belajar banyak"}`, want: []float64{3}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			submission := Submission{ID: "sub-1", Kind: tc.kind, Content: json.RawMessage(tc.content)}
			answers, err := submission.AnswerValues()
			require.NoError(t, err)
			require.Len(t, answers, len(tc.want))
			for i, want := range tc.want {
				require.NotNil(t, answers[i])
				assert.Equal(t, want, *answers[i])
			}
		})
	}
}

func TestAnswerValuesKeepsNilEntries(t *testing.T) {
	submission := Submission{ID: "sub-1", Kind: KindAssessment, Content: json.RawMessage(`{"answers":[4,null,2]}`)}
	answers, err := submission.AnswerValues()
	require.NoError(t, err)
	require.Len(t, answers, 3)
	assert.Nil(t, answers[1])
}

func TestAnswerValuesRejectsBadContent(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{name: "empty content", content: ""},
		{name: "invalid json", content: `{"answers":`},
		{name: "missing answers", content: `{"notes":"tanpa jawaban"}`},
		{name: "null answers", content: `{"answers":null}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			submission := Submission{ID: "sub-1", Kind: KindAssessment, Content: json.RawMessage(tc.content)}
			_, err := submission.AnswerValues()
			require.Error(t, err)
		})
	}
}

func TestDefaultDimensionName(t *testing.T) {
	assert.Equal(t, "Umum", KindAssessment.DefaultDimensionName())
	assert.Equal(t, "Umum", KindJournal.DefaultDimensionName())
	assert.Equal(t, "Observasi Umum", KindObservation.DefaultDimensionName())
}

func TestDimensionBreakdownRoundTrip(t *testing.T) {
	breakdown := DimensionBreakdown{
		{DimensionID: "kolaborasi", DimensionName: "Kolaborasi", AverageScore: 87.5, TotalSubmissions: 2, MaxScore: 100, QualitativeScore: "Sangat Baik (SB)", QualitativeCode: "SB"},
	}

	value, err := breakdown.Value()
	require.NoError(t, err)

	var scanned DimensionBreakdown
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, breakdown, scanned)

	var nilScanned DimensionBreakdown
	require.NoError(t, nilScanned.Scan(nil))
	assert.Nil(t, nilScanned)
}
