// Copyright 2016 Aleksandr Demakin. All rights reserved.

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	a := assert.New(t)
	l, err := ParseLevel("debug")
	a.NoError(err)
	a.Equal(zapcore.DebugLevel, l)
	l, err = ParseLevel("WARN")
	a.NoError(err)
	a.Equal(zapcore.WarnLevel, l)
	_, err = ParseLevel("loud")
	a.Error(err)
}

func TestNew(t *testing.T) {
	a := assert.New(t)
	logger, err := New(Config{Level: "warn", Development: true})
	a.NoError(err)
	a.NotNil(logger)
	a.False(logger.Core().Enabled(zapcore.InfoLevel))
	a.True(logger.Core().Enabled(zapcore.WarnLevel))

	_, err = New(Config{Level: "loud"})
	a.Error(err)
	a.NotNil(NewOrNop(Config{Level: "loud"}))
	a.True(NewOrNop(DefaultConfig()).Core().Enabled(zapcore.InfoLevel))
}
