package bases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"base-janitor/core/lxd"
	"base-janitor/core/lxd/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func testReconciler(client lxd.Client) *Reconciler {
	cfg := Config{Project: "charmcraft", ProviderLabel: "x", MinVersion: "3.0"}
	return NewReconciler(client, cfg, zap.NewNop())
}

func supportedName(version, osVersion string) string {
	return fmt.Sprintf("base-instance-charmcraft-x-base-v%s-craft-provider-x-buildd-%s", version, osVersion)
}

func inst(name string, created time.Time) lxd.Instance {
	return lxd.Instance{
		Name:      name,
		CreatedAt: created,
		ExpandedConfig: map[string]string{
			"image.description": name,
		},
	}
}

var (
	day1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
)

func TestReconcileImages(t *testing.T) {
	t.Run("ObsoleteAliasDeletesImage", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListImages", mock.Anything).Return([]lxd.Image{
			{
				Fingerprint: "abc123",
				Aliases: []lxd.ImageAlias{
					{Name: "snapshot-craft-provider-buildd-core22-charmcraft-x-base-v0.0"},
				},
			},
		}, nil)
		client.On("ListInstances", mock.Anything).Return([]lxd.Instance{}, nil)
		client.On("DeleteImage", mock.Anything, "abc123").Return(nil)

		report := testReconciler(client).Run(context.Background(), Options{})

		client.AssertCalled(t, "DeleteImage", mock.Anything, "abc123")
		images, _, failures := report.Counts()
		assert.Equal(t, 1, images)
		assert.Zero(t, failures)
	})

	t.Run("OneDeletionPerImageDespiteMultipleMatches", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListImages", mock.Anything).Return([]lxd.Image{
			{
				Fingerprint: "abc123",
				Aliases: []lxd.ImageAlias{
					{Name: "snapshot-craft-provider-buildd-core22-charmcraft-x-base-v0.0"},
					{Name: "base-instance-charmcraft-x-base-v28-a1b2c3"},
				},
			},
		}, nil)
		client.On("ListInstances", mock.Anything).Return([]lxd.Instance{}, nil)
		client.On("DeleteImage", mock.Anything, "abc123").Return(nil)

		testReconciler(client).Run(context.Background(), Options{})

		client.AssertNumberOfCalls(t, "DeleteImage", 1)
	})

	t.Run("UnrecognizedAliasUntouched", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListImages", mock.Anything).Return([]lxd.Image{
			{Fingerprint: "abc123", Aliases: []lxd.ImageAlias{{Name: "golden-image"}}},
			{Fingerprint: "def456", Aliases: nil},
		}, nil)
		client.On("ListInstances", mock.Anything).Return([]lxd.Instance{}, nil)

		report := testReconciler(client).Run(context.Background(), Options{})

		client.AssertNotCalled(t, "DeleteImage", mock.Anything, mock.Anything)
		assert.Empty(t, report.Deletions)
	})

	t.Run("InventoryUnavailableSkipsImagePassOnly", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListImages", mock.Anything).Return(nil, fmt.Errorf("project not found"))
		client.On("ListInstances", mock.Anything).Return([]lxd.Instance{
			inst("snapshot-craft-provider-buildd-core22-charmcraft-x-base-v0.0", day1),
		}, nil)
		client.On("DeleteInstance", mock.Anything, mock.Anything).Return(nil)

		report := testReconciler(client).Run(context.Background(), Options{})

		assert.True(t, report.ImagesSkipped)
		assert.Contains(t, report.ImagesError, "project not found")
		// The instance pass still ran.
		client.AssertNumberOfCalls(t, "DeleteInstance", 1)
	})
}

func TestReconcileInstances(t *testing.T) {
	t.Run("NewestWinsRegardlessOfListingOrder", func(t *testing.T) {
		older := inst(supportedName("3.0", "core22"), day1)
		newer := inst(supportedName("3.0", "core22")+"-b", day2)
		// Same slot: description determines the slot, the name is just the
		// deletion handle.
		newer.ExpandedConfig["image.description"] = supportedName("3.0", "core22")

		for name, order := range map[string][]lxd.Instance{
			"OldestFirst": {older, newer},
			"NewestFirst": {newer, older},
		} {
			t.Run(name, func(t *testing.T) {
				client := new(mocks.Client)
				client.On("ListImages", mock.Anything).Return([]lxd.Image{}, nil)
				client.On("ListInstances", mock.Anything).Return(order, nil)
				client.On("DeleteInstance", mock.Anything, older.Name).Return(nil)

				report := testReconciler(client).Run(context.Background(), Options{})

				client.AssertCalled(t, "DeleteInstance", mock.Anything, older.Name)
				client.AssertNotCalled(t, "DeleteInstance", mock.Anything, newer.Name)
				assert.Equal(t, 1, report.RetainedSlots)
				assert.Equal(t, ReasonSuperseded, report.Deletions[0].Reason)
			})
		}
	})

	t.Run("BelowMinimumDeletedUnconditionally", func(t *testing.T) {
		// Both duplicates are below minimum: neither occupies the slot, both go.
		a := inst(supportedName("2.0", "core22"), day1)
		b := inst(supportedName("2.0", "core22")+"-b", day2)
		b.ExpandedConfig["image.description"] = supportedName("2.0", "core22")

		client := new(mocks.Client)
		client.On("ListImages", mock.Anything).Return([]lxd.Image{}, nil)
		client.On("ListInstances", mock.Anything).Return([]lxd.Instance{a, b}, nil)
		client.On("DeleteInstance", mock.Anything, mock.Anything).Return(nil)

		report := testReconciler(client).Run(context.Background(), Options{})

		client.AssertCalled(t, "DeleteInstance", mock.Anything, a.Name)
		client.AssertCalled(t, "DeleteInstance", mock.Anything, b.Name)
		assert.Zero(t, report.RetainedSlots)
		for _, d := range report.Deletions {
			assert.Equal(t, ReasonBelowMinimum, d.Reason)
		}
	})

	t.Run("ObsoleteNameDeleted", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListImages", mock.Anything).Return([]lxd.Image{}, nil)
		client.On("ListInstances", mock.Anything).Return([]lxd.Instance{
			{Name: "base-instance-charmcraft-x-base-v28-a1b2c3", CreatedAt: day1},
		}, nil)
		client.On("DeleteInstance", mock.Anything, "base-instance-charmcraft-x-base-v28-a1b2c3").Return(nil)

		report := testReconciler(client).Run(context.Background(), Options{})

		client.AssertNumberOfCalls(t, "DeleteInstance", 1)
		assert.Equal(t, ReasonObsolete, report.Deletions[0].Reason)
	})

	t.Run("UnrecognizedUntouched", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("ListImages", mock.Anything).Return([]lxd.Image{}, nil)
		client.On("ListInstances", mock.Anything).Return([]lxd.Instance{
			{Name: "my-custom-dev-box", CreatedAt: day1},
		}, nil)

		report := testReconciler(client).Run(context.Background(), Options{})

		client.AssertNotCalled(t, "DeleteInstance", mock.Anything, mock.Anything)
		assert.Empty(t, report.Deletions)
	})

	t.Run("TieResolvedTowardLastObserved", func(t *testing.T) {
		first := inst(supportedName("3.0", "core22"), day1)
		second := inst(supportedName("3.0", "core22")+"-b", day1.Add(500*time.Millisecond))
		second.ExpandedConfig["image.description"] = supportedName("3.0", "core22")

		client := new(mocks.Client)
		client.On("ListImages", mock.Anything).Return([]lxd.Image{}, nil)
		client.On("ListInstances", mock.Anything).Return([]lxd.Instance{first, second}, nil)
		client.On("DeleteInstance", mock.Anything, first.Name).Return(nil)

		testReconciler(client).Run(context.Background(), Options{})

		client.AssertCalled(t, "DeleteInstance", mock.Anything, first.Name)
		client.AssertNotCalled(t, "DeleteInstance", mock.Anything, second.Name)
	})

	t.Run("DeleteFailureContinuesPass", func(t *testing.T) {
		bad := inst(supportedName("2.0", "core22"), day1)
		obsolete := lxd.Instance{Name: "base-instance-charmcraft-x-base-v28-a1b2c3", CreatedAt: day1}

		client := new(mocks.Client)
		client.On("ListImages", mock.Anything).Return([]lxd.Image{}, nil)
		client.On("ListInstances", mock.Anything).Return([]lxd.Instance{bad, obsolete}, nil)
		client.On("DeleteInstance", mock.Anything, bad.Name).Return(fmt.Errorf("instance is busy"))
		client.On("DeleteInstance", mock.Anything, obsolete.Name).Return(nil)

		report := testReconciler(client).Run(context.Background(), Options{})

		// The failure is recorded and the pass proceeded to the next entity.
		client.AssertNumberOfCalls(t, "DeleteInstance", 2)
		_, instances, failures := report.Counts()
		assert.Equal(t, 1, failures)
		assert.Equal(t, 1, instances)
		assert.Equal(t, OutcomeFailed, report.Deletions[0].Outcome)
		assert.Equal(t, "instance is busy", report.Deletions[0].Error)
	})
}

func TestReconcileDryRun(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListImages", mock.Anything).Return([]lxd.Image{
		{
			Fingerprint: "abc123",
			Aliases:     []lxd.ImageAlias{{Name: "snapshot-craft-provider-buildd-core22-charmcraft-x-base-v0.0"}},
		},
	}, nil)
	client.On("ListInstances", mock.Anything).Return([]lxd.Instance{
		inst(supportedName("2.0", "core22"), day1),
	}, nil)

	report := testReconciler(client).Run(context.Background(), Options{DryRun: true})

	client.AssertNotCalled(t, "DeleteImage", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "DeleteInstance", mock.Anything, mock.Anything)
	assert.True(t, report.DryRun)
	assert.Len(t, report.Deletions, 2)
	for _, d := range report.Deletions {
		assert.Equal(t, OutcomePlanned, d.Outcome)
	}
}

// TestReconcileIdempotence runs a pass, removes what it deleted from the
// inventory, runs a second pass on the remainder and expects zero deletions.
func TestReconcileIdempotence(t *testing.T) {
	inventory := []lxd.Instance{
		inst(supportedName("3.0", "core22"), day1),
		func() lxd.Instance {
			i := inst(supportedName("3.0", "core22")+"-b", day2)
			i.ExpandedConfig["image.description"] = supportedName("3.0", "core22")
			return i
		}(),
		inst(supportedName("3.0", "core24"), day1),
		inst(supportedName("2.0", "core22"), day2),
		{Name: "base-instance-charmcraft-x-base-v28-a1b2c3", CreatedAt: day1},
		{Name: "my-custom-dev-box", CreatedAt: day1},
	}

	run := func(instances []lxd.Instance) *Report {
		client := new(mocks.Client)
		client.On("ListImages", mock.Anything).Return([]lxd.Image{}, nil)
		client.On("ListInstances", mock.Anything).Return(instances, nil)
		client.On("DeleteInstance", mock.Anything, mock.Anything).Return(nil)
		return testReconciler(client).Run(context.Background(), Options{})
	}

	first := run(inventory)
	assert.Len(t, first.Deletions, 3)
	assert.Equal(t, 2, first.RetainedSlots)

	deleted := make(map[string]struct{})
	for _, d := range first.Deletions {
		_, dup := deleted[d.ID]
		assert.False(t, dup, "entity %s queued for deletion twice", d.ID)
		deleted[d.ID] = struct{}{}
	}

	var survivors []lxd.Instance
	for _, i := range inventory {
		if _, gone := deleted[i.Name]; !gone {
			survivors = append(survivors, i)
		}
	}

	second := run(survivors)
	assert.Empty(t, second.Deletions, "second pass must delete nothing")
	assert.Equal(t, 2, second.RetainedSlots)
}
