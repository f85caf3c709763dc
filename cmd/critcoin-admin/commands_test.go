package main

import (
	"bytes"
	"encoding/json"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/critcoin/critcoin-api/pkg/walletsig"
)

var fixedNow = func() time.Time { return time.UnixMilli(1_700_000_000_000) }

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out, fixedNow)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestKeygenThenAddress(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "admin.key")

	out, err := runCLI(t, "keygen", "--key", keyPath)
	require.NoError(t, err)
	assert.Contains(t, out, "ADMIN_WALLET_ADDRESS=0x")

	key, err := crypto.LoadECDSA(keyPath)
	require.NoError(t, err)

	out, err = runCLI(t, "address", "--key", keyPath)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey).Hex(), strings.TrimSpace(out))
}

func TestSignProducesVerifiableProof(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "admin.key")
	_, err := runCLI(t, "keygen", "--key", keyPath)
	require.NoError(t, err)

	out, err := runCLI(t, "sign", "--key", keyPath, "--action", "archive.create", "--field", "name=Fall 2024")
	require.NoError(t, err)

	var proof signedProof
	require.NoError(t, json.Unmarshal([]byte(out), &proof))

	var msg map[string]any
	require.NoError(t, json.Unmarshal([]byte(proof.Message), &msg))
	assert.EqualValues(t, 1_700_000_000_000, msg["timestamp"])
	assert.Equal(t, "archive.create", msg["action"])
	assert.Equal(t, "Fall 2024", msg["name"])

	signer, err := walletsig.Recover(proof.Message, proof.Signature)
	require.NoError(t, err)
	assert.Equal(t, proof.AdminWallet, signer.Hex())
}

func TestSignQueryRoundTrips(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "admin.key")
	_, err := runCLI(t, "keygen", "--key", keyPath)
	require.NoError(t, err)

	out, err := runCLI(t, "sign", "--key", keyPath, "--action", "archive.preview", "--query")
	require.NoError(t, err)

	values, err := url.ParseQuery(strings.TrimSpace(out))
	require.NoError(t, err)
	message, err := url.PathUnescape(values.Get("message"))
	require.NoError(t, err)

	signer, err := walletsig.Recover(message, values.Get("signature"))
	require.NoError(t, err)
	assert.Equal(t, values.Get("adminWallet"), signer.Hex())
}

func TestParseFieldsRejectsReservedAndMalformed(t *testing.T) {
	_, err := parseFields([]string{"timestamp=1"})
	assert.Error(t, err)

	_, err = parseFields([]string{"novalue"})
	assert.Error(t, err)

	fields, err := parseFields([]string{"id=abc", "note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "abc", "note": "a=b"}, fields)
}

func TestSignMissingKey(t *testing.T) {
	_, err := runCLI(t, "sign", "--key", filepath.Join(t.TempDir(), "missing.key"), "--action", "archive.delete")
	assert.Error(t, err)
}

func TestSignRequiresAction(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "admin.key")
	_, err := runCLI(t, "keygen", "--key", keyPath)
	require.NoError(t, err)

	_, err = runCLI(t, "sign", "--key", keyPath)
	assert.Error(t, err)
}
