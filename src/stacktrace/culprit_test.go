package stacktrace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"crashwatch/src/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectCulprit(t *testing.T) {
	policy := DefaultPolicy()

	vendor := model.StackFrame{FileName: "/app/node_modules/react-dom/index.js", LineNumber: intp(10), Raw: "v"}
	bundled := model.StackFrame{FileName: "https://cdn.example.com/lib.js", LineNumber: intp(1), Raw: "b"}
	app := model.StackFrame{FileName: "/app/src/Foo.tsx", LineNumber: intp(42), Raw: "a"}
	app2 := model.StackFrame{FileName: "/app/src/Bar.tsx", LineNumber: intp(7), Raw: "a2"}
	rawOnly := model.StackFrame{Raw: "Error: boom"}

	t.Run("first first-party frame wins", func(t *testing.T) {
		frames := []model.StackFrame{rawOnly, vendor, app, app2}
		got := SelectCulprit(frames, policy)

		require.Equal(t, model.CulpritAppFrame, got.Reason)
		require.NotNil(t, got.Frame)
		assert.Equal(t, frames[2], *got.Frame)
	})

	t.Run("falls back to first frame", func(t *testing.T) {
		frames := []model.StackFrame{bundled, vendor}
		got := SelectCulprit(frames, policy)

		require.Equal(t, model.CulpritFirstFrame, got.Reason)
		assert.Equal(t, frames[0], *got.Frame)
	})

	t.Run("no stack", func(t *testing.T) {
		got := SelectCulprit(nil, policy)
		assert.Equal(t, model.Culprit{Reason: model.CulpritNoStack}, got)

		got = SelectCulprit([]model.StackFrame{}, policy)
		assert.Nil(t, got.Frame)
		assert.Equal(t, model.CulpritNoStack, got.Reason)
	})

	t.Run("returned frame is a copy", func(t *testing.T) {
		frames := []model.StackFrame{app}
		got := SelectCulprit(frames, policy)
		got.Frame.FileName = "changed"
		assert.Equal(t, "/app/src/Foo.tsx", frames[0].FileName)
	})

	t.Run("empty policy never matches", func(t *testing.T) {
		got := SelectCulprit([]model.StackFrame{vendor, app}, Policy{})
		assert.Equal(t, model.CulpritFirstFrame, got.Reason)
	})
}

func TestPolicy_GoRuntimeIsVendor(t *testing.T) {
	policy := DefaultPolicy()
	root := GoSourceRoot()
	require.NotEmpty(t, root)
	assert.True(t, strings.HasSuffix(root, "/src/"), root)
	assert.Contains(t, policy.VendorMarkers, root)
	assert.False(t, policy.IsFirstParty(root+"runtime/panic.go"))
	assert.False(t, policy.IsFirstParty(root+"internal/runtime/maps/runtime_faststr.go"))
	assert.False(t, policy.IsFirstParty(root+"net/http/server.go"))
	assert.False(t, policy.IsFirstParty("/root/go/pkg/mod/gorm.io/gorm@v1.31.1/callbacks.go"))
	assert.True(t, policy.IsFirstParty("/home/dev/board/src/crash/reporter.go"))
	assert.False(t, policy.IsFirstParty(""))
}

func TestPolicy_FirstPartyInternalAndNetPackages(t *testing.T) {
	policy := DefaultPolicy()
	assert.True(t, policy.IsFirstParty("/app/src/internal/board/move.go"))
	assert.True(t, policy.IsFirstParty("/home/dev/board/src/net/http/client.go"))
	assert.True(t, policy.IsFirstParty("/srv/board/src/runtime/scheduler.go"))
	assert.True(t, policy.IsFirstParty("/srv/board/src/testing/fixtures.go"))
}

func TestLoadPolicy(t *testing.T) {
	t.Run("env only", func(t *testing.T) {
		t.Setenv("CULPRIT_FIRST_PARTY_MARKERS", "/web/,/board/")
		t.Setenv("CULPRIT_VENDOR_MARKERS", "node_modules")
		t.Setenv("CULPRIT_GO_SOURCE_IS_VENDOR", "false")

		policy, err := LoadPolicy(GetConfig())
		require.NoError(t, err)
		assert.Equal(t, []string{"/web/", "/board/"}, policy.FirstPartyMarkers)
		assert.Equal(t, []string{"node_modules"}, policy.VendorMarkers)
	})

	t.Run("go source appended to env markers", func(t *testing.T) {
		t.Setenv("CULPRIT_VENDOR_MARKERS", "node_modules")

		policy, err := LoadPolicy(GetConfig())
		require.NoError(t, err)
		assert.Equal(t, []string{"node_modules", GoSourceRoot()}, policy.VendorMarkers)
	})

	t.Run("yaml file overrides lists it sets", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "culprit.yaml")
		require.NoError(t, os.WriteFile(path, []byte("first_party_markers:\n  - /kanban/\n"), 0o600))
		t.Setenv("CULPRIT_POLICY_FILE", path)

		policy, err := LoadPolicy(GetConfig())
		require.NoError(t, err)
		assert.Equal(t, []string{"/kanban/"}, policy.FirstPartyMarkers)
		assert.Equal(t, DefaultPolicy().VendorMarkers, policy.VendorMarkers)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPolicy(Config{PolicyFile: filepath.Join(t.TempDir(), "nope.yaml")})
		require.Error(t, err)
	})
}
