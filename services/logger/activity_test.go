package logsvc

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimatric/admissions/core"
)

func TestActivityLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewActivityLogger(&buf)

	l.Info(core.Activity{User: "12345678ab", Role: "applicant", Action: "login_success"})
	l.Warn(core.Activity{User: "12345678ab", Role: "applicant", Action: "signup_fail_exists"})
	l.Error(core.Activity{
		User:    "admin@futa.edu.ng",
		Role:    "admin",
		Action:  "update_quota",
		Details: map[string]interface{}{"department": "computer-science-soc", "capacity": 120},
	})

	type line struct {
		Time    string                 `json:"time"`
		Level   string                 `json:"level"`
		User    string                 `json:"user"`
		Role    string                 `json:"role"`
		Action  string                 `json:"action"`
		Details map[string]interface{} `json:"details"`
	}
	var lines []line
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var l line
		require.NoError(t, json.Unmarshal(sc.Bytes(), &l), sc.Text())
		lines = append(lines, l)
	}
	require.Len(t, lines, 3)

	assert.Equal(t, "INFO", lines[0].Level)
	assert.Equal(t, "login_success", lines[0].Action)
	assert.NotEmpty(t, lines[0].Time)
	assert.Nil(t, lines[0].Details)

	assert.Equal(t, "WARN", lines[1].Level)
	assert.Equal(t, "signup_fail_exists", lines[1].Action)

	assert.Equal(t, "ERROR", lines[2].Level)
	assert.Equal(t, "admin@futa.edu.ng", lines[2].User)
	assert.Equal(t, "admin", lines[2].Role)
	assert.Equal(t, map[string]interface{}{"department": "computer-science-soc", "capacity": float64(120)}, lines[2].Details)
}
