package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("verbose"))
}

func TestInit(t *testing.T) {
	Init("error")
	defer Init("info")

	assert.Equal(t, logrus.ErrorLevel, Log.GetLevel())
	_, isJSON := Log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}
