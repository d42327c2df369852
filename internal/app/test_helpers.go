package app

import (
	"os"
	"testing"

	"github.com/specialistvlad/revgraph/internal/hcl"
	"github.com/specialistvlad/revgraph/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. The returned
// buffers capture the report output and the debug log respectively.
func SetupAppTest(t *testing.T, appConfig *Config) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()

	outBuffer := &testutil.SafeBuffer{}
	logBuffer := &testutil.SafeBuffer{}
	appConfig.LogLevel = "debug"
	testApp, err := NewApp(outBuffer, logBuffer, appConfig, hcl.NewLoader())
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}

	t.Cleanup(func() {
		if os.Getenv("REVGRAPH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, outBuffer, logBuffer
}
