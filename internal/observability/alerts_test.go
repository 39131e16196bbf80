package observability

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type alertRule struct {
	Alert       string            `yaml:"alert"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for"`
	Labels      map[string]string `yaml:"labels"`
	Annotations map[string]string `yaml:"annotations"`
}

type alertFile struct {
	Groups []struct {
		Name  string      `yaml:"name"`
		Rules []alertRule `yaml:"rules"`
	} `yaml:"groups"`
}

// Metric families the API and worker export; alert expressions may only
// reference these.
var exportedSeries = map[string]bool{
	"oms_http_requests_total":                  true,
	"oms_http_request_duration_seconds_bucket": true,
	"oms_permission_denials_total":             true,
	"oms_jobs_total":                           true,
	"oms_jobs_failures_total":                  true,
	"oms_job_duration_seconds_bucket":          true,
	"oms_mails_total":                          true,
	"oms_idempotency_keys_purged_total":        true,
}

var seriesName = regexp.MustCompile(`\boms_[a-z_]+`)

func loadAlertRules(t *testing.T) []alertRule {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "deploy", "prometheus", "alerts", "oms.yml"))
	require.NoError(t, err)

	var file alertFile
	require.NoError(t, yaml.Unmarshal(data, &file))
	for _, g := range file.Groups {
		if g.Name == "oms" {
			return g.Rules
		}
	}
	t.Fatal("oms alert group missing")
	return nil
}

func TestOMSAlertRules(t *testing.T) {
	want := map[string]string{
		"HighErrorRate":           "critical",
		"HighLatency":             "warning",
		"PermissionDenialSpike":   "warning",
		"NotificationJobsFailing": "warning",
	}
	rules := loadAlertRules(t)
	require.Len(t, rules, len(want))

	for _, rule := range rules {
		severity, ok := want[rule.Alert]
		require.True(t, ok, "unexpected rule %q", rule.Alert)
		assert.Equal(t, severity, rule.Labels["severity"], rule.Alert)
		assert.NotEmpty(t, rule.Expr, rule.Alert)
		assert.NotEmpty(t, rule.For, rule.Alert)
		assert.NotEmpty(t, rule.Annotations["summary"], rule.Alert)
		assert.NotEmpty(t, rule.Annotations["description"], rule.Alert)
		assert.Regexp(t, `^docs/runbook-oms\.md#[a-z-]+$`, rule.Annotations["runbook"], rule.Alert)
	}
}

func TestAlertExpressionsUseExportedSeries(t *testing.T) {
	for _, rule := range loadAlertRules(t) {
		names := seriesName.FindAllString(rule.Expr, -1)
		require.NotEmpty(t, names, rule.Alert)
		for _, name := range names {
			assert.True(t, exportedSeries[name], "%s references unknown series %s", rule.Alert, name)
		}
	}
}
