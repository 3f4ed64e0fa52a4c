package bootstrap

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())

	down, _, err := root.Find([]string{"migrate", "down"})
	require.NoError(t, err)
	assert.Equal(t, "1", down.Flag("steps").DefValue)
}

func TestMigrateDown_RejectsZeroSteps(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"migrate", "down", "--steps", "0"})

	err := root.Execute()
	assert.ErrorContains(t, err, "steps must be at least 1")
}

func TestSetupLogger(t *testing.T) {
	setupLogger("debug")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	setupLogger("loud")
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
