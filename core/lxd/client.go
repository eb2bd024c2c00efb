package lxd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmgilman/go/exec"
)

// Client defines the interface for LXD inventory operations.
// The janitor only ever lists and deletes; nothing here creates or renames.
type Client interface {
	// ListImages returns a snapshot of the images in the configured project.
	ListImages(ctx context.Context) ([]Image, error)
	// ListInstances returns a snapshot of the instances in the configured project.
	ListInstances(ctx context.Context) ([]Instance, error)
	// DeleteImage removes an image by fingerprint.
	DeleteImage(ctx context.Context, fingerprint string) error
	// DeleteInstance removes an instance by name, stopping it if needed.
	DeleteInstance(ctx context.Context, name string) error
}

// NewClient creates a Client backed by the lxc command-line tool.
func NewClient(cfg Config) Client {
	base := exec.New(exec.WithInheritEnv(), exec.WithDisableColors())
	return &cliClient{
		cfg:  cfg,
		exec: exec.NewWrapper(base, cfg.Binary),
	}
}

// newClientWithExecutor wires an arbitrary executor, used by tests.
func newClientWithExecutor(cfg Config, executor exec.Executor) Client {
	return &cliClient{cfg: cfg, exec: executor}
}

// cliClient shells out to lxc with --format json. The lxc binary owns
// authentication and transport; the janitor only parses its output.
type cliClient struct {
	cfg  Config
	exec exec.Executor
}

func (c *cliClient) ListImages(ctx context.Context) ([]Image, error) {
	out, err := c.run(ctx, "image", "list", c.cfg.Remote+":", "--project", c.cfg.Project, "--format", "json")
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	var images []Image
	if err := json.Unmarshal([]byte(out), &images); err != nil {
		return nil, fmt.Errorf("decode image list: %w", err)
	}
	return images, nil
}

func (c *cliClient) ListInstances(ctx context.Context) ([]Instance, error) {
	out, err := c.run(ctx, "list", c.cfg.Remote+":", "--project", c.cfg.Project, "--format", "json")
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}

	var instances []Instance
	if err := json.Unmarshal([]byte(out), &instances); err != nil {
		return nil, fmt.Errorf("decode instance list: %w", err)
	}
	return instances, nil
}

func (c *cliClient) DeleteImage(ctx context.Context, fingerprint string) error {
	_, err := c.run(ctx, "image", "delete", c.cfg.Remote+":"+fingerprint, "--project", c.cfg.Project)
	if err != nil {
		return fmt.Errorf("delete image %s: %w", fingerprint, err)
	}
	return nil
}

func (c *cliClient) DeleteInstance(ctx context.Context, name string) error {
	_, err := c.run(ctx, "delete", c.cfg.Remote+":"+name, "--project", c.cfg.Project, "--force")
	if err != nil {
		return fmt.Errorf("delete instance %s: %w", name, err)
	}
	return nil
}

// run executes one lxc invocation on a clone of the base executor so that
// per-call context and timeout never leak into later calls.
func (c *cliClient) run(ctx context.Context, args ...string) (string, error) {
	ex := c.exec.Clone().WithContext(ctx)
	if c.cfg.Timeout != "" {
		ex = ex.WithTimeout(c.cfg.Timeout)
	}

	res, err := ex.Run(args...)
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}
