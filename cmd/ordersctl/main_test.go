package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"orderdesk/internal/app"
	"orderdesk/internal/config"
	"orderdesk/internal/stubapi"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	srv := httptest.NewServer(stubapi.NewRouter(stubapi.NewStore(), nil))
	t.Cleanup(srv.Close)

	a, err := app.New(&config.Config{
		APIBaseURL:        srv.URL,
		AppEnv:            "test",
		RequestTimeout:    5 * time.Second,
		SearchDebounce:    10 * time.Millisecond,
		SearchCacheSize:   10,
		MaxQuantity:       1000,
		MaxUnitPrice:      decimal.NewFromInt(1_000_000),
		RequireFutureDate: true,
	})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func execute(t *testing.T, a *app.App, in string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(in))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCmd_Tree(t *testing.T) {
	a := newTestApp(t)
	root := newRootCmd(a)

	for _, b := range a.Bindings() {
		cmd, rest, err := root.Find(b.Path())
		require.NoError(t, err, b.Trigger)
		assert.Empty(t, rest)
		assert.Equal(t, b.Summary, cmd.Short)
	}

	pay, _, err := root.Find([]string{"orders", "pay"})
	require.NoError(t, err)
	assert.Equal(t, "pay <id> <amount>", pay.Use)

	add, _, err := root.Find([]string{"orders", "add"})
	require.NoError(t, err)
	assert.NotNil(t, add.Flags().Lookup("status"))
}

func TestRootCmd_Execute(t *testing.T) {
	a := newTestApp(t)

	out, err := execute(t, a, "", "customers", "add", "Jane Doe", "0712345678")
	require.NoError(t, err)
	assert.Contains(t, out, "Customer #1 Jane Doe (+254 712 345 678) added")

	out, err = execute(t, a, "", "customers", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Jane Doe")

	out, err = execute(t, a, "Jane\n", "watch-search", "customers")
	require.NoError(t, err)
	assert.Contains(t, out, "> Jane")

	out, err = execute(t, a, "", "products", "add", "Chair", "abc", "1", "FOOD")
	require.Error(t, err)
	assert.Contains(t, out, "price \"abc\" is not a number")

	_, err = execute(t, a, "", "orders", "status", "1")
	assert.ErrorIs(t, err, app.ErrUsage)
}
