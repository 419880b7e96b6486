package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseNameList(t *testing.T) {
	assert.Equal(t, []string{"branchbound"}, parseNameList("branchbound"))
	assert.Equal(t, []string{"branchbound", "cbc"}, parseNameList(" Branchbound, CBC "))
}

func TestParseWorkerList(t *testing.T) {
	sizes, err := parseWorkerList("1, 2,4")
	assert.Nil(t, err)
	assert.Equal(t, []int{1, 2, 4}, sizes)

	_, err = parseWorkerList("1,two")
	assert.NotNil(t, err)

	_, err = parseWorkerList("0")
	assert.ErrorContains(t, err, "positive")
}

func TestRunsPerSecond(t *testing.T) {
	assert.Equal(t, 100.0, runsPerSecond(50, 500*time.Millisecond))
	assert.Equal(t, 0.0, runsPerSecond(50, 0))
}
