package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityIteratorWalksInOrder(t *testing.T) {
	repo := &fakeActivityRepo{}
	for i := 0; i < 5; i++ {
		repo.append("product_edit")
	}
	svc := NewActivityService(repo)
	it := svc.Stream(0, 2)

	var ids []int64
	for {
		e, err := it.Next(context.Background())
		require.NoError(t, err)
		if e == nil {
			break
		}
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids)
	assert.Equal(t, int64(5), it.LastID())
}

func TestActivityIteratorResumesAfterLastID(t *testing.T) {
	repo := &fakeActivityRepo{}
	for i := 0; i < 4; i++ {
		repo.append("product_edit")
	}
	svc := NewActivityService(repo)

	it := svc.Stream(2, 10)
	e, err := it.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, int64(3), e.ID)
}

func TestActivityIteratorSeesLaterAppends(t *testing.T) {
	repo := &fakeActivityRepo{}
	repo.append("product_create")
	svc := NewActivityService(repo)
	it := svc.Stream(0, 10)

	e, err := it.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, int64(1), e.ID)

	// caught up with the head
	e, err = it.Next(context.Background())
	require.NoError(t, err)
	assert.Nil(t, e)

	// a later append is picked up by the same iterator
	repo.append("product_archive")
	e, err = it.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, int64(2), e.ID)
}

func TestActivityIteratorIndependentConsumers(t *testing.T) {
	repo := &fakeActivityRepo{}
	for i := 0; i < 3; i++ {
		repo.append("product_edit")
	}
	svc := NewActivityService(repo)

	a := svc.Stream(0, 10)
	b := svc.Stream(0, 10)

	ea, err := a.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, ea)

	// advancing one iterator does not move the other
	eb, err := b.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, eb)
	assert.Equal(t, ea.ID, eb.ID)
}
