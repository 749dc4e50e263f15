package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mikey/inbox-labeler/internal/core"
	"golang.org/x/oauth2"
)

// Credential is the persisted OAuth session for the mail account
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	Expiry       time.Time `json:"expiry"`
}

// CredentialFromToken copies the persistable fields of an oauth2 token
func CredentialFromToken(tok *oauth2.Token) *Credential {
	return &Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
	}
}

// Token converts the credential back into an oauth2 token
func (c *Credential) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    c.TokenType,
		Expiry:       c.Expiry,
	}
}

// FileStore keeps a single credential as a JSON file readable only by the owner
type FileStore struct {
	path string
}

// NewFileStore creates a credential store at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the credential file location
func (s *FileStore) Path() string {
	return s.path
}

// Exists reports whether a credential file is present
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the stored credential. A missing or unreadable file yields
// core.ErrReauthRequired.
func (s *FileStore) Load() (*Credential, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no stored credential", core.ErrReauthRequired)
		}
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("%w: corrupt credential file: %v", core.ErrReauthRequired, err)
	}
	return &cred, nil
}

// Save writes the credential with mode 0600
func (s *FileStore) Save(cred *Credential) error {
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create credential directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(s.path, 0600); err != nil {
		return fmt.Errorf("failed to restrict credential file: %w", err)
	}
	return nil
}
