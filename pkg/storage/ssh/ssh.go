package ssh

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/williamokano/img_uploader/pkg/storage"
)

// Backend publishes objects to a directory served by a web server
type Backend struct {
	name          string
	sshClient     *ssh.Client
	sftpClient    *sftp.Client
	remotePath    string
	publicBaseURL string
}

func init() {
	storage.RegisterBackend("ssh", func(ctx context.Context, cfg storage.Config) (storage.Backend, error) {
		return New(cfg)
	})
}

// New creates a new SSH/SFTP backend
func New(cfg storage.Config) (*Backend, error) {
	sshCfg, err := parseConfig(cfg.Options)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "init", err)
	}

	clientConfig, err := buildClientConfig(sshCfg)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "init", err)
	}

	// Connect to SSH server
	addr := fmt.Sprintf("%s:%d", sshCfg.Host, sshCfg.Port)
	sshClient, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "connect", fmt.Errorf("%w: %w", storage.ErrConnFailed, err))
	}

	// Create SFTP client
	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, storage.WrapError(cfg.Name, "sftp init", err)
	}

	b, err := newBackend(cfg.Name, sshCfg, sftpClient)
	if err != nil {
		sftpClient.Close()
		sshClient.Close()
		return nil, err
	}
	b.sshClient = sshClient

	return b, nil
}

// newBackend wraps an established SFTP session
func newBackend(name string, cfg *Config, sftpClient *sftp.Client) (*Backend, error) {
	// Ensure remote directory exists
	if err := sftpClient.MkdirAll(cfg.RemotePath); err != nil {
		return nil, storage.WrapError(name, "mkdir", err)
	}

	return &Backend{
		name:          name,
		sftpClient:    sftpClient,
		remotePath:    cfg.RemotePath,
		publicBaseURL: cfg.PublicBaseURL,
	}, nil
}

func buildClientConfig(cfg *Config) (*ssh.ClientConfig, error) {
	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if cfg.KnownHostsPath != "" {
		cb, err := knownhosts.New(cfg.KnownHostsPath)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to load known hosts: %w", storage.ErrInvalidConfig, err)
		}
		hostKeyCallback = cb
	}

	clientConfig := &ssh.ClientConfig{
		User:            cfg.User,
		HostKeyCallback: hostKeyCallback,
		Timeout:         30 * time.Second,
	}

	// Add authentication methods
	if cfg.Password != "" {
		clientConfig.Auth = append(clientConfig.Auth, ssh.Password(cfg.Password))
	}

	if cfg.KeyPath != "" {
		key, err := os.ReadFile(cfg.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read SSH key: %w", storage.ErrInvalidConfig, err)
		}

		var signer ssh.Signer
		if cfg.KeyPassphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(cfg.KeyPassphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(key)
		}

		if err != nil {
			return nil, fmt.Errorf("%w: failed to parse SSH key: %w", storage.ErrInvalidConfig, err)
		}

		clientConfig.Auth = append(clientConfig.Auth, ssh.PublicKeys(signer))
	}

	return clientConfig, nil
}

func (b *Backend) Name() string { return b.name }
func (b *Backend) Type() string { return "ssh" }

// Put uploads the object via SFTP and returns its address under the public
// base URL. A partially written file is removed.
func (b *Backend) Put(ctx context.Context, obj storage.Object) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", storage.WrapError(b.name, "upload", err)
	}

	// Build remote path
	remotePath := path.Join(b.remotePath, obj.Key)

	// Ensure remote directory exists
	remoteDir := path.Dir(remotePath)
	if err := b.sftpClient.MkdirAll(remoteDir); err != nil {
		return "", storage.WrapError(b.name, "mkdir", err)
	}

	// Create remote file
	remoteFile, err := b.sftpClient.Create(remotePath)
	if err != nil {
		return "", storage.WrapError(b.name, "create", err)
	}

	if _, err := io.Copy(remoteFile, &ctxReader{ctx: ctx, data: obj.Data}); err != nil {
		remoteFile.Close()
		b.sftpClient.Remove(remotePath)
		return "", storage.WrapError(b.name, "upload", err)
	}

	if err := remoteFile.Close(); err != nil {
		b.sftpClient.Remove(remotePath)
		return "", storage.WrapError(b.name, "upload", err)
	}

	return b.publicBaseURL + "/" + obj.Key, nil
}

// Close releases resources
func (b *Backend) Close() error {
	if b.sftpClient != nil {
		b.sftpClient.Close()
	}
	if b.sshClient != nil {
		b.sshClient.Close()
	}
	return nil
}

// ctxReader stops a copy between chunks once ctx is done
type ctxReader struct {
	ctx  context.Context
	data []byte
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}
