package s3

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/pfamprep/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockDDBClient is an in-memory DynamoDB mock for testing.
type mockDDBClient struct {
	mu    sync.RWMutex
	items map[string]map[string]types.AttributeValue // key -> item
}

func newMockDDBClient() *mockDDBClient {
	return &mockDDBClient{
		items: make(map[string]map[string]types.AttributeValue),
	}
}

func (m *mockDDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	baseURI := params.Item["base_uri"].(*types.AttributeValueMemberS).Value
	version := params.Item["version"].(*types.AttributeValueMemberN).Value
	key := baseURI + ":" + version

	// Check conditional expression
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(version)" {
		if _, exists := m.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}

	m.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDDBClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	baseURI := params.ExpressionAttributeValues[":uri"].(*types.AttributeValueMemberS).Value

	// Find items matching baseURI, sort by version descending
	var items []map[string]types.AttributeValue
	for _, item := range m.items {
		if item["base_uri"].(*types.AttributeValueMemberS).Value == baseURI {
			items = append(items, item)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return versionOf(items[i]) > versionOf(items[j])
	})

	if params.Limit != nil && int(*params.Limit) < len(items) {
		items = items[:*params.Limit]
	}

	return &dynamodb.QueryOutput{Items: items}, nil
}

func versionOf(item map[string]types.AttributeValue) uint64 {
	v, _ := strconv.ParseUint(item["version"].(*types.AttributeValueMemberN).Value, 10, 64)
	return v
}

func newTestDDBCommitStore(ddb *mockDDBClient, baseURI string) *DDBCommitStore {
	s3Store := NewStore(&MockS3Client{}, "pfam-staging", WithPrefix("test"))
	return NewDDBCommitStore(s3Store, ddb, "pfamprep-commits", baseURI)
}

func TestDDBCommitStore_FirstCommit(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()
	store := newTestDDBCommitStore(ddb, "s3://pfam-staging/test")

	// First commit should succeed
	err := store.Put(ctx, blobstore.CurrentName, []byte("MANIFEST-000001.json"))
	require.NoError(t, err)

	// Read back CURRENT
	blob, err := store.Open(ctx, blobstore.CurrentName)
	require.NoError(t, err)
	defer blob.Close()

	buf := make([]byte, 100)
	n, _ := blob.ReadAt(ctx, buf, 0)
	assert.Equal(t, "MANIFEST-000001.json", string(buf[:n]))
}

func TestDDBCommitStore_MultipleCommits(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()
	store := newTestDDBCommitStore(ddb, "s3://pfam-staging/test")

	// Commit versions 1, 2, 3
	for i := 1; i <= 3; i++ {
		err := store.Put(ctx, blobstore.CurrentName, []byte(fmt.Sprintf("MANIFEST-%06d.json", i)))
		require.NoError(t, err)
	}

	// Read back should get latest (version 3)
	blob, err := store.Open(ctx, blobstore.CurrentName)
	require.NoError(t, err)
	defer blob.Close()

	buf := make([]byte, 100)
	n, _ := blob.ReadAt(ctx, buf, 0)
	assert.Equal(t, "MANIFEST-000003.json", string(buf[:n]))
}

func TestDDBCommitStore_ConcurrentCommits(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()
	store := newTestDDBCommitStore(ddb, "s3://pfam-staging/test")

	// Initial commit
	err := store.Put(ctx, blobstore.CurrentName, []byte("MANIFEST-000001.json"))
	require.NoError(t, err)

	// Concurrent writers
	var wg sync.WaitGroup
	successes := 0
	conflicts := 0
	var mu sync.Mutex

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			err := store.Put(ctx, blobstore.CurrentName, []byte(fmt.Sprintf("MANIFEST-%06d.json", id+2)))
			mu.Lock()
			defer mu.Unlock()
			if errors.Is(err, ErrConcurrentModification) {
				conflicts++
			} else if err == nil {
				successes++
			} else {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}

	wg.Wait()
	assert.Greater(t, successes, 0, "at least one writer should succeed")
	t.Logf("successes: %d, conflicts: %d", successes, conflicts)
}

func TestDDBCommitStore_NotFoundBeforeCommit(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()
	store := newTestDDBCommitStore(ddb, "s3://pfam-staging/test")

	_, err := store.Open(ctx, blobstore.CurrentName)
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestDDBCommitStore_IsolatedNamespaces(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()

	store1 := newTestDDBCommitStore(ddb, "s3://bucket-a/path/")
	store2 := newTestDDBCommitStore(ddb, "s3://bucket-b/path/")

	// Commit to each store
	require.NoError(t, store1.Put(ctx, blobstore.CurrentName, []byte("MANIFEST-A.json")))
	require.NoError(t, store2.Put(ctx, blobstore.CurrentName, []byte("MANIFEST-B.json")))

	// Each sees their own manifest
	blob1, _ := store1.Open(ctx, blobstore.CurrentName)
	buf := make([]byte, 100)
	n, _ := blob1.ReadAt(ctx, buf, 0)
	assert.Equal(t, "MANIFEST-A.json", string(buf[:n]))
	blob1.Close()

	blob2, _ := store2.Open(ctx, blobstore.CurrentName)
	n, _ = blob2.ReadAt(ctx, buf, 0)
	assert.Equal(t, "MANIFEST-B.json", string(buf[:n]))
	blob2.Close()
}

func TestDDBCommitStore_VersionAndOrdering(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()
	store := newTestDDBCommitStore(ddb, "")

	v, err := store.Version(ctx)
	require.NoError(t, err)
	assert.Zero(t, v)

	// Past version 9 a lexical comparison would pick the wrong item.
	for i := 1; i <= 12; i++ {
		require.NoError(t, store.Put(ctx, blobstore.CurrentName, []byte(fmt.Sprintf("MANIFEST-%06d.json", i))))
	}

	v, err = store.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), v)

	data, err := blobstore.ReadAll(ctx, store, blobstore.CurrentName)
	require.NoError(t, err)
	assert.Equal(t, "MANIFEST-000012.json", string(data))
	assert.Equal(t, "s3://pfam-staging/test", store.baseURI)
}

func TestDDBCommitStore_QueryError(t *testing.T) {
	store := NewDDBCommitStore(NewStore(&MockS3Client{}, "b"), failingDDB{}, "t", "s3://b/")

	err := store.Put(context.Background(), blobstore.CurrentName, []byte("MANIFEST-000001.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query commits")
}

type failingDDB struct{}

func (failingDDB) PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return nil, errors.New("unavailable")
}

func (failingDDB) Query(context.Context, *dynamodb.QueryInput, ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return nil, errors.New("unavailable")
}

func TestDDBCommitStore_PrefixedCurrent(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()
	s3mock := &MockS3Client{}
	commits := NewDDBCommitStore(NewStore(s3mock, "pfam-staging"), ddb, "pfamprep-commits", "")
	store := blobstore.WithPrefix(commits, "v1")

	require.NoError(t, store.Put(ctx, blobstore.CurrentName, []byte("MANIFEST-000001.json")))
	require.NoError(t, store.Put(ctx, blobstore.CurrentName, []byte("MANIFEST-000002.json")))
	s3mock.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)

	require.Len(t, ddb.items, 2)
	for _, item := range ddb.items {
		assert.Equal(t, "s3://pfam-staging/v1", item["base_uri"].(*types.AttributeValueMemberS).Value)
	}

	data, err := blobstore.ReadAll(ctx, store, blobstore.CurrentName)
	require.NoError(t, err)
	assert.Equal(t, "MANIFEST-000002.json", string(data))

	v, err := commits.VersionOf(ctx, "v1/"+blobstore.CurrentName)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v)

	// the root pointer has its own sequence
	v, err = commits.Version(ctx)
	require.NoError(t, err)
	assert.Zero(t, v)
}

// staleDDB hides existing commits from Query, as a stager that read CURRENT
// before a competitor committed would see them.
type staleDDB struct{ *mockDDBClient }

func (staleDDB) Query(context.Context, *dynamodb.QueryInput, ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return &dynamodb.QueryOutput{}, nil
}

func TestDDBCommitStore_PrefixedConflict(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()

	winner := blobstore.WithPrefix(NewDDBCommitStore(NewStore(&MockS3Client{}, "pfam-staging"), ddb, "t", ""), "v1")
	require.NoError(t, winner.Put(ctx, blobstore.CurrentName, []byte("MANIFEST-000001.json")))

	loser := blobstore.WithPrefix(NewDDBCommitStore(NewStore(&MockS3Client{}, "pfam-staging"), staleDDB{ddb}, "t", ""), "v1")
	err := loser.Put(ctx, blobstore.CurrentName, []byte("MANIFEST-000002.json"))
	assert.ErrorIs(t, err, ErrConcurrentModification)
}
