package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/bag_shop/internal/logging"
	"github.com/Skotchmaster/bag_shop/internal/seed"
)

func TestLogUsers_KeepsPasswordsOutOfInfoLogs(t *testing.T) {
	t.Parallel()

	users := []seed.User{{Name: "Ann", Email: "ann@test.io", Password: "s3cret-pw", Role: "admin"}}

	for _, sample := range []bool{true, false} {
		var buf bytes.Buffer
		logUsers(logging.NewWithWriter(&buf, "info"), users, sample)
		assert.NotContains(t, buf.String(), "s3cret-pw", "sample=%v", sample)
	}

	var buf bytes.Buffer
	logUsers(logging.NewWithWriter(&buf, "info"), users, false)
	assert.Contains(t, buf.String(), "ann@test.io")

	buf.Reset()
	logUsers(logging.NewWithWriter(&buf, "debug"), users, true)
	assert.Contains(t, buf.String(), "s3cret-pw")
}
