package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionFlags(t *testing.T) {
	var flags selectionFlags
	cmd := &cobra.Command{Use: "x"}
	flags.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--department", "", "--age-min", "30", "--gender", "Female,Male"}))

	sel := flags.selection(cmd)
	assert.NotNil(t, sel.Departments)
	assert.Empty(t, sel.Departments)
	assert.Equal(t, []string{"Female", "Male"}, sel.Genders)
	require.NotNil(t, sel.AgeMin)
	assert.Equal(t, 30.0, *sel.AgeMin)
	assert.Nil(t, sel.AgeMax)
}

func TestSelectionFlags_Untouched(t *testing.T) {
	var flags selectionFlags
	cmd := &cobra.Command{Use: "x"}
	flags.register(cmd)
	require.NoError(t, cmd.ParseFlags(nil))

	sel := flags.selection(cmd)
	assert.Nil(t, sel.Departments)
	assert.Nil(t, sel.Genders)
	assert.Nil(t, sel.AgeMin)
}

func TestGenerateCmd(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"EA.csv", "EA.xlsx"} {
		path := filepath.Join(dir, name)
		cmd := newGenerateCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--rows", "25", "--seed", "3", "--out", path})

		require.NoError(t, cmd.Execute(), name)
		assert.Contains(t, out.String(), "wrote 25 employees")
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}
