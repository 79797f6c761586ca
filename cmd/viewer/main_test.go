package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestRun_PrintFiltersByTag(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"--print", "--tag", "공공"}, &out))

	text := out.String()
	require.Contains(t, text, "강변 파빌리온")
	require.NotContains(t, text, "마켓 커먼즈")
	require.Contains(t, text, "no report")
}

func TestRun_PrintEmptyResult(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"--print", "-q", "zzz"}, &out))
	require.Contains(t, out.String(), "no projects match the current filter")
}

func TestRun_PrintFromTOMLCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[projects]]
id = "atrium"
title = "Atrium"
year = 2021
type = "Civic"
cover = "/c.jpg"
images = ["/1.jpg"]
description = "A glass atrium."
area = "90㎡"
role = "Lead"
tags = ["glass"]
`), 0o644))

	var out bytes.Buffer
	require.NoError(t, run([]string{"--print", "--catalog", path}, &out))
	require.Contains(t, out.String(), "Atrium")
	require.Contains(t, out.String(), "glass")
}

func TestRun_RejectsExtraArguments(t *testing.T) {
	err := run([]string{"--print", "extra"}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestRun_UnknownCatalogFormat(t *testing.T) {
	err := run([]string{"--print", "--catalog", "catalog.json"}, &bytes.Buffer{})
	require.Error(t, err)
}
