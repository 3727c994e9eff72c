package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/deppfellow/go-signup/internal/config"
	"github.com/deppfellow/go-signup/internal/database"
	"github.com/deppfellow/go-signup/internal/database/memory"
	"github.com/deppfellow/go-signup/internal/repository"
	"github.com/deppfellow/go-signup/internal/server"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

const testDatabase = "signup_test"

// memorySetup returns a SetupFunc whose containers all share one Manager
// and one in-memory store, so state carries over between commands.
func memorySetup(store *memory.Server) SetupFunc {
	registry := database.NewRegistry()

	return func(opts *RootOptions, logOut io.Writer) (*server.Server, error) {
		cfg := &config.Config{
			Primary:  config.Primary{Env: "test"},
			Database: config.DatabaseConfig{Driver: config.DriverMemory, Name: testDatabase},
		}
		logger := zerolog.New(logOut)
		return server.New(cfg, &logger, nil,
			server.WithRegistry(registry),
			server.WithDialer(store.Dial),
		)
	}
}

func execute(t *testing.T, setup SetupFunc, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand(setup)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(nil)
	require.NotNil(t, cmd)
	assert.Equal(t, "signupctl", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(nil)
	commands := []string{"ping", "init-indexes", "exists", "reset", "signup", "serve", "version"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestInitIndexesCommandFlags(t *testing.T) {
	cmd := NewRootCommand(nil)
	initCmd, _, err := cmd.Find([]string{"init-indexes"})
	require.NoError(t, err)

	collection := initCmd.Flags().Lookup("collection")
	require.NotNil(t, collection)
	assert.Equal(t, repository.UserCollection, collection.DefValue)

	field := initCmd.Flags().Lookup("field")
	require.NotNil(t, field)
	assert.Equal(t, "[email]", field.DefValue)
}

func TestPing(t *testing.T) {
	out, err := execute(t, memorySetup(memory.NewServer()), "ping")
	require.NoError(t, err)
	assert.Contains(t, out, "ok: signup_test is reachable")
}

func TestPing_Unreachable(t *testing.T) {
	store := memory.NewServer()
	store.SetDialError(errors.New("connection refused"))

	_, err := execute(t, memorySetup(store), "ping")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, database.ErrConnection)
}

func TestSignupExistsAndReset(t *testing.T) {
	store := memory.NewServer()
	setup := memorySetup(store)

	_, err := execute(t, setup, "init-indexes", "--width", "1")
	require.NoError(t, err)

	out, err := execute(t, setup, "signup", "--email", "jane@example.com", "--password", "correct horse")
	require.NoError(t, err)
	assert.Contains(t, out, "created user")

	out, err = execute(t, setup, "signup", "--email", "jane@example.com", "--password", "correct horse")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "USER_ALREADY_EXISTS")
	assert.Empty(t, out)

	out, err = execute(t, setup, "exists", "--field", "email", "--value", "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = execute(t, setup, "exists", "--field", "email", "--value", "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)

	_, err = execute(t, setup, "reset")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, 1, store.Count(testDatabase, repository.UserCollection))

	out, err = execute(t, setup, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "removed 1 document(s) from User")
	assert.Equal(t, 0, store.Count(testDatabase, repository.UserCollection))
}

func TestInitIndexes_DuplicateData(t *testing.T) {
	ctx := context.Background()
	store := memory.NewServer()

	conn, err := store.Dial(ctx, testDatabase)
	require.NoError(t, err)
	for range 2 {
		_, err := conn.Collection("Profile").Insert(ctx, bson.M{"nickname": "jane"})
		require.NoError(t, err)
	}

	_, err = execute(t, memorySetup(store), "init-indexes", "--collection", "Profile", "--field", "nickname")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, database.ErrIndexFatal)
}

func TestExists_RequiresField(t *testing.T) {
	_, err := execute(t, memorySetup(memory.NewServer()), "exists", "--value", "x")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "signupctl dev")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))
}
