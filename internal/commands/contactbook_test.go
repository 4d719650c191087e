package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homebook/internal/core"
)

func contactbook(t *testing.T, env *Env, args ...string) (string, error) {
	t.Helper()
	return run(t, NewContactbookCommand, env, "", args...)
}

func readContactsFile(t *testing.T, path string) []core.Contact {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var list []core.Contact
	require.NoError(t, json.Unmarshal(data, &list))
	return list
}

func TestContactbook_AddListSearch(t *testing.T) {
	env := testEnv(t)

	out, err := contactbook(t, env, "list")
	require.NoError(t, err)
	assert.Equal(t, "No contacts found.\n", out)

	_, err = contactbook(t, env, "add", "bob", "555-0101")
	require.NoError(t, err)
	out, err = contactbook(t, env, "add", " Alice ", "555-0100", "alice@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Contact added successfully!")

	out, err = contactbook(t, env, "list")
	require.NoError(t, err)
	assert.Regexp(t, `(?s)NAME\s+PHONE\s+EMAIL\nAlice\s+555-0100\s+alice@example.com\nbob\s+555-0101`, out)

	out, err = contactbook(t, env, "search", "ALI")
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")
	assert.NotContains(t, out, "bob")

	list := readContactsFile(t, env.Config.ContactsFile)
	require.Len(t, list, 2)
	assert.Equal(t, "bob", list[0].Name, "file keeps insertion order")
}

func TestContactbook_AddErrors(t *testing.T) {
	env := testEnv(t)
	_, err := contactbook(t, env, "add", "Alice", "1")
	require.NoError(t, err)

	_, err = contactbook(t, env, "add", "Alice", "2")
	assert.ErrorIs(t, err, core.ErrDuplicateKey)

	_, err = contactbook(t, env, "add", "Bob", " ")
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = contactbook(t, env, "add", "OnlyName")
	assert.Error(t, err)

	assert.Len(t, readContactsFile(t, env.Config.ContactsFile), 1)
}

func TestContactbook_Update(t *testing.T) {
	env := testEnv(t)
	_, err := contactbook(t, env, "add", "Alice", "1", "a@example.com")
	require.NoError(t, err)
	_, err = contactbook(t, env, "add", "Bob", "2")
	require.NoError(t, err)

	out, err := contactbook(t, env, "update", "Alice", "--phone", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "Contact updated successfully!")

	list := readContactsFile(t, env.Config.ContactsFile)
	assert.Equal(t, core.Contact{Name: "Alice", Phone: "9", Email: "a@example.com"}, list[0])

	_, err = contactbook(t, env, "update", "Alice", "--name", "Alicia", "--email", "")
	require.NoError(t, err)
	list = readContactsFile(t, env.Config.ContactsFile)
	assert.Equal(t, core.Contact{Name: "Alicia", Phone: "9"}, list[0])

	_, err = contactbook(t, env, "update", "Nobody", "--phone", "1")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = contactbook(t, env, "update", "Alicia", "--name", "Bob")
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestContactbook_Delete(t *testing.T) {
	env := testEnv(t)
	_, err := contactbook(t, env, "add", "Alice", "1")
	require.NoError(t, err)

	out, err := contactbook(t, env, "delete", "alice")
	require.NoError(t, err, "deleting an absent exact name is a no-op")
	assert.Equal(t, "No contact named \"alice\".\n", out)
	assert.Len(t, readContactsFile(t, env.Config.ContactsFile), 1)

	out, err = run(t, NewContactbookCommand, env, "n\n", "delete", "Alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Delete contact Alice (1)? [y/N]: ")
	assert.Contains(t, out, "Aborted.")
	assert.Len(t, readContactsFile(t, env.Config.ContactsFile), 1)

	_, err = contactbook(t, env, "delete", "Alice")
	require.NoError(t, err, "no answer on stdin counts as no")
	assert.Len(t, readContactsFile(t, env.Config.ContactsFile), 1)

	out, err = run(t, NewContactbookCommand, env, "y\n", "delete", "Alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Contact deleted successfully!")
	assert.Empty(t, readContactsFile(t, env.Config.ContactsFile))

	_, err = contactbook(t, env, "add", "Bob", "2")
	require.NoError(t, err)
	_, err = contactbook(t, env, "delete", "--yes", "Bob")
	require.NoError(t, err)
	assert.Empty(t, readContactsFile(t, env.Config.ContactsFile))
}

func TestContactbook_FileFlag(t *testing.T) {
	env := testEnv(t)
	other := filepath.Join(t.TempDir(), "other.json")

	_, err := contactbook(t, env, "--file", other, "add", "Carol", "3")
	require.NoError(t, err)

	assert.Len(t, readContactsFile(t, other), 1)
	assert.NoFileExists(t, env.Config.ContactsFile)
}
