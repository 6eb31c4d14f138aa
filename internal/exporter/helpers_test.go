package exporter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tradepulse/internal/dataprocessing"
	"tradepulse/internal/shared/testutil"
	"tradepulse/pkg/contracts/domain"
)

// sampleResult analyzes the shared six-trade history:
// 09時台 3/3, 10時台 0/1, 11時台 1/2, total profit ¥5,800
func sampleResult(t *testing.T) *domain.AnalysisResult {
	t.Helper()

	result, err := dataprocessing.Analyze(testutil.Records(testutil.SampleHistory()...))
	require.NoError(t, err)
	return result
}
