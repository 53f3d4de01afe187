package hclplan

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planit-dev/planit/internal/estimate"
	"github.com/planit-dev/planit/internal/plan"
	"github.com/planit-dev/planit/internal/slurm"
)

func writePlanFile(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestLoadPipeline(t *testing.T) {
	p, err := Load(context.Background(), filepath.Join("testdata", "pipeline.hcl"))
	require.NoError(t, err)
	assert.Equal(t, "nlp_pipeline", p.Name())

	root, ok := p.Root().(*plan.Chain)
	require.True(t, ok)
	require.Len(t, root.Nodes, 4)

	first, ok := root.Nodes[0].(*plan.Step)
	require.True(t, ok)
	assert.Equal(t, "download", first.Name)

	_, ok = root.Nodes[1].(*plan.Parallel)
	assert.True(t, ok)

	d, err := estimate.CriticalPath(root)
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, d)
}

func TestLoadStepAttributes(t *testing.T) {
	path := writePlanFile(t, `
plan "single" {
  step "train" {
    handler       = "train_model"
    time          = "02:00:00"
    partition     = "gpu"
    gpus_per_node = 4
    nodes         = 2
    cpus_per_task = 16
    mem_gb        = 64
    account       = "my-account"
    cluster       = "wice"
    mail_type     = ["BEGIN", "END"]
    mail_user     = "user@example.com"
    args          = ["en", "bert"]
    kwargs = {
      epochs = 2
    }
    params = {
      qos = "debug"
    }
  }
}
`)
	p, err := Load(context.Background(), path)
	require.NoError(t, err)

	s, ok := p.Root().(*plan.Step)
	require.True(t, ok)
	assert.Equal(t, "train", s.Name)
	assert.Equal(t, "train_model", s.Task.Handler)
	assert.Equal(t, []any{"en", "bert"}, s.Task.Args)
	assert.Equal(t, map[string]any{"epochs": float64(2)}, s.Task.Kwargs)

	args, ok := s.Res.(slurm.Args)
	require.True(t, ok)
	assert.Equal(t, "02:00:00", args.Time)
	assert.Equal(t, "gpu", args.Partition)
	assert.Equal(t, 4, args.GPUsPerNode)
	assert.Equal(t, 2, args.Nodes)
	assert.Equal(t, 16, args.CPUsPerTask)
	assert.Equal(t, 64, args.MemGB)
	assert.Equal(t, "my-account", args.Account)
	assert.Equal(t, "wice", args.Cluster)
	assert.Equal(t, []slurm.MailType{slurm.MailBegin, slurm.MailEnd}, args.MailType)
	assert.Equal(t, "user@example.com", args.MailUser)
	assert.Equal(t, map[string]any{"qos": "debug"}, args.AdditionalParams)
}

func TestLoadPreservesChainOrderAcrossBlockTypes(t *testing.T) {
	path := writePlanFile(t, `
plan "ordered" {
  chain {
    step "a" {
      handler   = "noop"
      time      = "00:01:00"
      partition = "cpu"
    }
    parallel {
      step "b" {
        handler   = "noop"
        time      = "00:01:00"
        partition = "cpu"
      }
    }
    step "c" {
      handler   = "noop"
      time      = "00:01:00"
      partition = "cpu"
    }
  }
}
`)
	p, err := Load(context.Background(), path)
	require.NoError(t, err)

	root, ok := p.Root().(*plan.Chain)
	require.True(t, ok)
	require.Len(t, root.Nodes, 3)
	_, ok = root.Nodes[0].(*plan.Step)
	assert.True(t, ok)
	_, ok = root.Nodes[1].(*plan.Parallel)
	assert.True(t, ok)
	_, ok = root.Nodes[2].(*plan.Step)
	assert.True(t, ok)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	src := `
plan "dirplan" {
  step "only" {
    handler   = "noop"
    time      = "00:01:00"
    partition = "cpu"
  }
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plan.hcl"), []byte(src), 0o644))

	p, err := Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "dirplan", p.Name())
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
		assert.Error(t, err)
	})

	t.Run("no plan block", func(t *testing.T) {
		path := writePlanFile(t, ``)
		_, err := Load(context.Background(), path)
		var cfgErr *plan.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Reason, "no plan block")
	})

	t.Run("two plan blocks", func(t *testing.T) {
		path := writePlanFile(t, `
plan "one" {
  step "a" {
    handler   = "noop"
    time      = "00:01:00"
    partition = "cpu"
  }
}
plan "two" {
  step "b" {
    handler   = "noop"
    time      = "00:01:00"
    partition = "cpu"
  }
}
`)
		_, err := Load(context.Background(), path)
		var cfgErr *plan.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Reason, "exactly one plan block")
	})

	t.Run("missing required attribute", func(t *testing.T) {
		path := writePlanFile(t, `
plan "broken" {
  step "a" {
    handler   = "noop"
    partition = "cpu"
  }
}
`)
		_, err := Load(context.Background(), path)
		assert.Error(t, err)
	})

	t.Run("empty chain", func(t *testing.T) {
		path := writePlanFile(t, `
plan "broken" {
  chain {}
}
`)
		_, err := Load(context.Background(), path)
		var cfgErr *plan.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Reason, "at least one child")
	})

	t.Run("plan with two roots", func(t *testing.T) {
		path := writePlanFile(t, `
plan "broken" {
  step "a" {
    handler   = "noop"
    time      = "00:01:00"
    partition = "cpu"
  }
  step "b" {
    handler   = "noop"
    time      = "00:01:00"
    partition = "cpu"
  }
}
`)
		_, err := Load(context.Background(), path)
		var cfgErr *plan.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Reason, "exactly one root node")
	})

	t.Run("malformed wall time", func(t *testing.T) {
		path := writePlanFile(t, `
plan "broken" {
  step "a" {
    handler   = "noop"
    time      = "not-a-time"
    partition = "cpu"
  }
}
`)
		_, err := Load(context.Background(), path)
		var cfgErr *plan.ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("wrong attribute type", func(t *testing.T) {
		path := writePlanFile(t, `
plan "broken" {
  step "a" {
    handler   = "noop"
    time      = "00:01:00"
    partition = "cpu"
    nodes     = "two"
  }
}
`)
		_, err := Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"nodes" must be a number`)
	})
}
