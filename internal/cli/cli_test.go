package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/you/go-travel-flights/internal/config"
	"github.com/you/go-travel-flights/internal/providers"
	"github.com/you/go-travel-flights/internal/service"
)

func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	cfg := &config.Config{Origin: "OSL", Destination: "PER", DefaultCurrency: "NOK", SearchTimeout: 5 * time.Second}
	svc := service.NewSearchService(providers.NewMock(""))

	root := NewRootCmd(cfg, svc)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	code := 0
	if err := root.ExecuteContext(context.Background()); err != nil {
		errOut.WriteString("ERROR: " + errorMessage(err) + "\n")
		code = 1
	}
	return out.String(), errOut.String(), code
}

func TestSearchPrintsTable(t *testing.T) {
	out, _, code := run(t, "search", "--date-range", "2025-12-10:2025-12-15",
		"--airlines", "QR,emirates", "--max-price", "10000")
	require.Equal(t, 0, code)
	require.Contains(t, out, "Searching flights using mock...")
	require.Contains(t, out, "Found 3 flights")

	i8500 := strings.Index(out, "8500 NOK")
	i8950 := strings.Index(out, "8950 NOK")
	i9300 := strings.Index(out, "9300 NOK")
	require.True(t, i8500 > 0 && i8500 < i8950 && i8950 < i9300, out)
	require.NotContains(t, out, "11000 NOK")
}

func TestSearchDepartureWindow(t *testing.T) {
	out, _, code := run(t, "search", "--date", "2025-12-10", "--dep-window", "22:00-04:00")
	require.Equal(t, 0, code)
	require.Contains(t, out, "Found 1 flights")
	require.Contains(t, out, "10400 NOK")
}

func TestSearchNoMatches(t *testing.T) {
	out, _, code := run(t, "search", "--date", "2025-12-10", "--max-price", "100")
	require.Equal(t, 0, code)
	require.Contains(t, out, "Found 0 flights")
	require.Contains(t, out, "No flights found matching your criteria.")
}

func TestSearchInputErrors(t *testing.T) {
	_, errOut, code := run(t, "search")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "Please specify either --date or --date-range")

	_, errOut, code = run(t, "search", "--date", "2025-12-10", "--date-range", "2025-12-10:2025-12-11")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "not both")

	_, errOut, code = run(t, "search", "--date", "2025-12-10", "--sort", "airline")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "invalid sort key")
}

func TestExecuteReturnsExitCode(t *testing.T) {
	cfg := &config.Config{Origin: "OSL", Destination: "PER"}
	svc := service.NewSearchService(providers.NewMock("/does/not/exist.json"))
	require.Equal(t, 1, Execute(context.Background(), cfg, svc, []string{"search", "--date", "2025-12-10"}))
}
