package main

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/critcoin/critcoin-api/pkg/walletsig"
)

// signedProof mirrors the admin proof fields the API expects.
type signedProof struct {
	Message     string `json:"message"`
	Signature   string `json:"signature"`
	AdminWallet string `json:"adminWallet"`
}

func newRootCmd(out io.Writer, now func() time.Time) *cobra.Command {
	root := &cobra.Command{
		Use:           "critcoin-admin",
		Short:         "CritCoin administrator key and signature tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.AddCommand(newKeygenCmd(), newAddressCmd(), newSignCmd(now))
	return root
}

func newKeygenCmd() *cobra.Command {
	var keyPath string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new admin key and write it as hex to a file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := crypto.GenerateKey()
			if err != nil {
				return fmt.Errorf("generate key: %w", err)
			}
			if err := crypto.SaveECDSA(keyPath, key); err != nil {
				return fmt.Errorf("save key: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "key written to %s\nADMIN_WALLET_ADDRESS=%s\n", keyPath, crypto.PubkeyToAddress(key.PublicKey).Hex())
			return nil
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "admin.key", "path of the key file to create")
	return cmd
}

func newAddressCmd() *cobra.Command {
	var keyPath string
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Print the wallet address of an admin key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := crypto.LoadECDSA(keyPath)
			if err != nil {
				return fmt.Errorf("load key: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), crypto.PubkeyToAddress(key.PublicKey).Hex())
			return nil
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "admin.key", "path of the admin key file")
	return cmd
}

func newSignCmd(now func() time.Time) *cobra.Command {
	var (
		keyPath string
		action  string
		fields  []string
		query   bool
	)
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a timestamped admin message",
		Long: `sign builds a JSON admin message containing the current timestamp, the
action and the admin wallet, signs it with personal_sign semantics and prints
the proof fields. With --query the output is a query string for GET endpoints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := crypto.LoadECDSA(keyPath)
			if err != nil {
				return fmt.Errorf("load key: %w", err)
			}
			extra, err := parseFields(fields)
			if err != nil {
				return err
			}
			proof, err := signAdminMessage(key, action, extra, now())
			if err != nil {
				return err
			}
			if query {
				fmt.Fprintln(cmd.OutOrStdout(), proofQuery(proof))
				return nil
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(proof)
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "admin.key", "path of the admin key file")
	cmd.Flags().StringVar(&action, "action", "", "operation the signature authorizes: archive.preview, archive.create, archive.clear-current, archive.update or archive.delete")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "extra key=value pair to embed in the message (repeatable)")
	cmd.Flags().BoolVar(&query, "query", false, "print a URL query string instead of JSON")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

func signAdminMessage(key *ecdsa.PrivateKey, action string, extra map[string]any, at time.Time) (*signedProof, error) {
	wallet := crypto.PubkeyToAddress(key.PublicKey).Hex()

	fields := make(map[string]any, len(extra)+3)
	for k, v := range extra {
		fields[k] = v
	}
	fields["timestamp"] = at.UnixMilli()
	fields["wallet"] = strings.ToLower(wallet)
	fields["action"] = action

	message, err := walletsig.CanonicalMessage(fields)
	if err != nil {
		return nil, err
	}
	sig, err := walletsig.Sign(message, key)
	if err != nil {
		return nil, fmt.Errorf("sign message: %w", err)
	}
	return &signedProof{Message: message, Signature: sig, AdminWallet: wallet}, nil
}

// proofQuery encodes the message twice: the server query-decodes once and then
// path-unescapes the message again before verifying it.
func proofQuery(p *signedProof) string {
	values := url.Values{}
	values.Set("message", url.PathEscape(p.Message))
	values.Set("signature", p.Signature)
	values.Set("adminWallet", p.AdminWallet)
	return values.Encode()
}

func parseFields(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --field %q, expected key=value", pair)
		}
		switch k {
		case "timestamp", "wallet", "action":
			return nil, fmt.Errorf("--field %q is reserved", k)
		}
		out[k] = v
	}
	return out, nil
}
