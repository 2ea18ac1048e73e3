// Package auth verifies user credentials and issues session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserExists         = errors.New("username already taken")
)

// Provider checks and registers credentials. Authenticate reports false,
// not an error, for an unknown user or a wrong password; CreateUser reports
// false when the username is already taken.
type Provider interface {
	Authenticate(ctx context.Context, username, password string) (bool, error)
	CreateUser(ctx context.Context, username, password string) (bool, error)
}

func hashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// usersFile is the YAML document shape:
//
//	users:
//	  alice: $2a$10$...
type usersFile struct {
	Users map[string]string `yaml:"users"`
}

// FileProvider keeps bcrypt hashes in a YAML file. The file is created
// with an empty user table when missing and re-read on every call, so
// edits made by other processes are picked up.
type FileProvider struct {
	mu   sync.Mutex
	path string
}

func NewFileProvider(path string) (*FileProvider, error) {
	p := &FileProvider{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := p.save(usersFile{Users: map[string]string{}}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat users file: %w", err)
	}
	return p, nil
}

func (p *FileProvider) load() (usersFile, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return usersFile{}, fmt.Errorf("read users file: %w", err)
	}
	var f usersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return usersFile{}, fmt.Errorf("decode users file: %w", err)
	}
	if f.Users == nil {
		f.Users = map[string]string{}
	}
	return f, nil
}

func (p *FileProvider) save(f usersFile) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode users file: %w", err)
	}
	if dir := filepath.Dir(p.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create users dir: %w", err)
		}
	}
	if err := os.WriteFile(p.path, data, 0o600); err != nil {
		return fmt.Errorf("write users file: %w", err)
	}
	return nil
}

func (p *FileProvider) Authenticate(_ context.Context, username, password string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f, err := p.load()
	if err != nil {
		return false, err
	}
	hash, ok := f.Users[username]
	if !ok {
		return false, nil
	}
	return checkPassword(hash, password), nil
}

func (p *FileProvider) CreateUser(_ context.Context, username, password string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f, err := p.load()
	if err != nil {
		return false, err
	}
	if _, ok := f.Users[username]; ok {
		return false, nil
	}
	hash, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	f.Users[username] = hash
	return true, p.save(f)
}

// MemoryProvider is a Provider for tests and the memory backend.
type MemoryProvider struct {
	mu     sync.Mutex
	hashes map[string]string
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{hashes: make(map[string]string)}
}

func (p *MemoryProvider) Authenticate(_ context.Context, username, password string) (bool, error) {
	p.mu.Lock()
	hash, ok := p.hashes[username]
	p.mu.Unlock()
	if !ok {
		return false, nil
	}
	return checkPassword(hash, password), nil
}

func (p *MemoryProvider) CreateUser(_ context.Context, username, password string) (bool, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.hashes[username]; ok {
		return false, nil
	}
	p.hashes[username] = hash
	return true, nil
}
