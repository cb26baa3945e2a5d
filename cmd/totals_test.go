package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalsCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"totals",
		"--rent-amount", "1000",
		"--parking-fee", "50",
		"--electricity-fee", "200kWh",
		"--discount", "abc",
		"--tax", "10",
		"--previous-due", "5",
	})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "Total        1250.00\nGrand total  1265.00\n", out.String())
}

func TestTotalsFlagsSkipComputedFields(t *testing.T) {
	assert.NotNil(t, totalsCmd.Flags().Lookup("rent-amount"))
	assert.NotNil(t, totalsCmd.Flags().Lookup("generator-power-backup-fee"))
	assert.Nil(t, totalsCmd.Flags().Lookup("total-amount"))
	assert.Nil(t, totalsCmd.Flags().Lookup("grand-total"))
}
