package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimatric/admissions/core"
	"github.com/unimatric/admissions/core/user"
)

func TestReportArgs(t *testing.T) {
	err := errors.New("boom")
	act := core.Activity{
		User:    "12345678ab",
		Role:    user.RoleApplicant,
		Action:  "POST /v1/admission/applications",
		Details: map[string]interface{}{"department": "computer-science-soc"},
	}

	t.Run("activity", func(t *testing.T) {
		usr, rest := reportArgs([]interface{}{err, act, map[string]interface{}{"attempt": 2}})
		require.NotNil(t, usr)
		assert.Equal(t, "12345678ab", usr.ID)
		assert.Equal(t, user.RoleApplicant, usr.Role)
		require.Len(t, rest, 2)
		assert.Equal(t, err, rest[0])
		assert.Equal(t, map[string]interface{}{
			"action":     "POST /v1/admission/applications",
			"department": "computer-science-soc",
			"attempt":    2,
		}, rest[1])
	})

	t.Run("user wins over activity", func(t *testing.T) {
		admin := user.User{ID: "staff001", Role: user.RoleAdmin, Email: "staff@futa.edu.ng"}
		usr, _ := reportArgs([]interface{}{admin, act})
		require.NotNil(t, usr)
		assert.Equal(t, admin, *usr)
	})

	t.Run("anonymous user ignored", func(t *testing.T) {
		usr, _ := reportArgs([]interface{}{user.User{}, core.Activity{Action: "GET /v1/departments"}})
		assert.Nil(t, usr)
	})

	t.Run("no context", func(t *testing.T) {
		usr, rest := reportArgs([]interface{}{err})
		assert.Nil(t, usr)
		assert.Equal(t, []interface{}{err}, rest)
	})
}

func TestRollbarLogger_print(t *testing.T) {
	var buf bytes.Buffer
	l := RollbarLogger{std: log.New(&buf, "", 0)}
	l.print("analysis failed", []interface{}{
		user.User{ID: "staff001", Role: user.RoleAdmin},
		core.Activity{User: "staff001", Role: user.RoleAdmin, Action: "get_score_verification_ai_error"},
	})
	assert.Equal(t, "analysis failed\n"+
		"user: staff001 (admin)\n"+
		"activity: get_score_verification_ai_error by staff001 (admin) map[]\n", buf.String())
}
