package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	if !strings.Contains(out.String(), "Name?") {
		t.Fatalf("prompt not written: %q", out.String())
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetDefaultText(t *testing.T) {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader("\nnew\n"))

	got, err := GetDefaultText(in, "Icon", "cup", &out)
	require.NoError(t, err)
	assert.Equal(t, "cup", got)
	assert.Contains(t, out.String(), "Icon [cup]")

	got, err = GetDefaultText(in, "Icon", "cup", &out)
	require.NoError(t, err)
	assert.Equal(t, "new", got)
}

func TestGetAmount(t *testing.T) {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader("50,000\n12.50\nlots\n"))

	d, err := GetAmount(in, "Amount", &out)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50000).Equal(d))

	d, err = GetAmount(in, "Amount", &out)
	require.NoError(t, err)
	assert.Equal(t, "12.5", d.String())

	_, err = GetAmount(in, "Amount", &out)
	require.Error(t, err)
}

func TestGetDate(t *testing.T) {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader("2024-03-01\n\n03/01/2024\n"))

	d, err := GetDate(in, "Date", &out)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = GetDate(in, "Date", &out)
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = GetDate(in, "Date", &out)
	require.Error(t, err)
}
