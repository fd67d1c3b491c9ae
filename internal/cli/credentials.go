package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/charliek/logview/internal/auth"
	"github.com/charliek/logview/internal/config"
)

// JWTSecretEnvVar supplies the signing secret for the token command when
// neither --secret nor the config file provide one.
const JWTSecretEnvVar = "LOGVIEW_JWT_SECRET"

// Token command flags
var (
	tokenSecret  string
	tokenRole    string
	tokenSubject string
	tokenTTL     time.Duration
)

// hashPasswordCmd represents the hash-password command
var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for auth.basic.password_hash",
	Long: `Print a bcrypt hash for auth.basic.password_hash.

The password is read from the first line of stdin when not given as an
argument, which keeps it out of shell history.

Examples:
  logview hash-password
  echo -n "s3cret" | logview hash-password`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHashPassword,
}

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a JWT accepted by auth.jwt",
	Long: `Issue an HS256 JWT accepted by the auth.jwt filter.

The secret comes from --secret, then auth.jwt.secret in the config file,
then $` + JWTSecretEnvVar + `.

Examples:
  logview token --role log-reader
  logview token --subject ci --ttl 1h
  logview token --ttl 0                       # Never expires`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSecret, "secret", "", "HMAC signing secret")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "", "Role placed in the roles claim")
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "Subject (sub) claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime, 0 for no expiry")

	rootCmd.AddCommand(hashPasswordCmd, tokenCmd)
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	var password string
	if len(args) == 1 {
		password = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return errors.New("password must not be empty")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}

func runToken(cmd *cobra.Command, args []string) error {
	if tokenTTL < 0 {
		return fmt.Errorf("invalid --ttl %s (must not be negative)", tokenTTL)
	}

	secret := resolveJWTSecret()
	if secret == "" {
		return fmt.Errorf("no signing secret: pass --secret, set auth.jwt.secret or $%s", JWTSecretEnvVar)
	}

	now := time.Now()
	claims := auth.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:  tokenSubject,
		IssuedAt: jwt.NewNumericDate(now),
	}}
	if tokenRole != "" {
		claims.Roles = []string{tokenRole}
	}
	if tokenTTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(tokenTTL))
	}

	token, err := auth.SignToken(secret, claims)
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

func resolveJWTSecret() string {
	if tokenSecret != "" {
		return tokenSecret
	}
	if cfg, err := config.Load(configPath); err == nil && cfg.Auth.JWT != nil && cfg.Auth.JWT.Secret != "" {
		return cfg.Auth.JWT.Secret
	}
	return os.Getenv(JWTSecretEnvVar)
}
