package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/linkgate/internal/access/app"
	"github.com/aussiebroadwan/linkgate/internal/access/domain"
	"github.com/aussiebroadwan/linkgate/pkg/jwtx"
	"github.com/spf13/cobra"
)

var tokenCommand = cobra.Command{
	Use:   "token",
	Short: "issues, inspects and revokes link tokens",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var (
	issuePurpose      string
	issueResourceType string
	issueResourceID   string
	issueHint         string
	issueTTL          time.Duration
	issueNoExpiry     bool

	checkPurpose string

	extendTTL   time.Duration
	extendNever bool

	devSubject string
	devEmail   string
	devName    string
	devScopes  []string
	devTTL     time.Duration
	devJWKS    bool
)

var tokenIssueCommand = cobra.Command{
	Use:   "issue",
	Short: "issues a token to the command line",
	Long: `Issues a token for a resource and prints it with its link. Any live
token of the same resource and purpose is revoked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		purpose, err := domain.ParsePurpose(issuePurpose)
		if err != nil {
			return err
		}
		rt, err := domain.ParseResourceType(issueResourceType)
		if err != nil {
			return err
		}
		if issueResourceID == "" {
			return errors.New("--resource-id is required")
		}

		core, _, err := openCore()
		if err != nil {
			return err
		}
		defer core.Close()

		it, err := core.Issuer.Issue(cmd.Context(), domain.IssueRequest{
			Resource:      domain.ResourceRef{Type: rt, ID: issueResourceID},
			Purpose:       purpose,
			PrincipalHint: issueHint,
			TTL:           issueTTL,
			NoExpiry:      issueNoExpiry,
			CreatedBy:     "cli",
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "token:   %s\n", it.Token)
		fmt.Fprintf(out, "url:     %s\n", it.URL)
		if it.Binding.ExpiresAt != nil {
			fmt.Fprintf(out, "expires: %s\n", it.Binding.ExpiresAt.Format(time.RFC3339))
		} else {
			fmt.Fprintln(out, "expires: never")
		}
		return nil
	},
}

var tokenCheckCommand = cobra.Command{
	Use:   "check <token>",
	Short: "validates a token for a purpose and prints the decision",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		purpose, err := domain.ParsePurpose(checkPurpose)
		if err != nil {
			return err
		}
		core, _, err := openCore()
		if err != nil {
			return err
		}
		defer core.Close()

		r := core.Validator.Check(cmd.Context(), args[0], purpose)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "status: %s\nreason: %s\n", r.Status, r.Reason)
		if r.Valid() {
			fmt.Fprintf(out, "resource: %s\n", r.Resource.Ref)
			if r.PrincipalHint != "" {
				fmt.Fprintf(out, "hint: %s\n", r.PrincipalHint)
			}
		}
		return nil
	},
}

var tokenRevokeCommand = cobra.Command{
	Use:   "revoke <token>",
	Short: "revokes a token, revoking twice is fine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		core, _, err := openCore()
		if err != nil {
			return err
		}
		defer core.Close()

		if err := core.Issuer.Revoke(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "revoked")
		return nil
	},
}

var tokenExtendCommand = cobra.Command{
	Use:   "extend <token>",
	Short: "moves a token's expiry, revoked or used tokens stay unusable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !extendNever && extendTTL <= 0 {
			return errors.New("give --ttl or --never")
		}
		core, _, err := openCore()
		if err != nil {
			return err
		}
		defer core.Close()

		var at *time.Time
		if !extendNever {
			t := time.Now().UTC().Add(extendTTL).Truncate(time.Millisecond)
			at = &t
		}
		if err := core.Issuer.SetExpiry(cmd.Context(), args[0], at); err != nil {
			return err
		}
		if at == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "expires: never")
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "expires: %s\n", at.Format(time.RFC3339))
		}
		return nil
	},
}

var tokenDevJWTCommand = cobra.Command{
	Use:   "dev-jwt",
	Short: "mints an owner bearer token with the local dev key",
	Long: `Mints an owner access token signed with the local development key that
serve trusts when ENV=dev and no JWKS is configured. With --jwks the
public key set is printed instead, for use as AUTH_JWKS_FILE.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.IsDev() {
			return errors.New("dev-jwt only works with ENV=dev")
		}
		signer, err := app.DevSigner(cfg)
		if err != nil {
			return err
		}

		if devJWKS {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(jwtx.JWKS{Keys: []jwtx.JWK{signer.PublicJWK()}})
		}

		if devSubject == "" {
			return errors.New("--sub is required")
		}
		claims := jwtx.NewClaims(devSubject, devEmail, devScopes, devTTL, cfg.AuthIssuer, cfg.AuthAudience, time.Now())
		claims.Name = devName
		tok, err := signer.Sign(claims)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenIssueCommand.Flags().StringVar(&issuePurpose, "purpose", "", "invite, questionnaire, magic-link or password-reset")
	tokenIssueCommand.Flags().StringVar(&issueResourceType, "resource-type", "project", "project or guest")
	tokenIssueCommand.Flags().StringVar(&issueResourceID, "resource-id", "", "id of the resource the token unlocks")
	tokenIssueCommand.Flags().StringVar(&issueHint, "hint", "", "email the token is meant for")
	tokenIssueCommand.Flags().DurationVar(&issueTTL, "ttl", 0, "lifetime, 0 uses the purpose default")
	tokenIssueCommand.Flags().BoolVar(&issueNoExpiry, "no-expiry", false, "issue a token that never expires")

	tokenCheckCommand.Flags().StringVar(&checkPurpose, "purpose", "", "purpose the token is presented for")

	tokenExtendCommand.Flags().DurationVar(&extendTTL, "ttl", 0, "new lifetime counted from now")
	tokenExtendCommand.Flags().BoolVar(&extendNever, "never", false, "remove the expiry")

	tokenDevJWTCommand.Flags().StringVar(&devSubject, "sub", "", "subject claim")
	tokenDevJWTCommand.Flags().StringVar(&devEmail, "email", "", "email claim")
	tokenDevJWTCommand.Flags().StringVar(&devName, "name", "", "name claim")
	tokenDevJWTCommand.Flags().StringSliceVar(&devScopes, "scope", nil, "repeat --scope for each scope")
	tokenDevJWTCommand.Flags().DurationVar(&devTTL, "ttl", time.Hour, "token lifetime")
	tokenDevJWTCommand.Flags().BoolVar(&devJWKS, "jwks", false, "print the public JWKS instead of a token")

	tokenCommand.AddCommand(&tokenIssueCommand)
	tokenCommand.AddCommand(&tokenCheckCommand)
	tokenCommand.AddCommand(&tokenRevokeCommand)
	tokenCommand.AddCommand(&tokenExtendCommand)
	tokenCommand.AddCommand(&tokenDevJWTCommand)
}
