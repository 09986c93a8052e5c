package dynamodb

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var (
	equalExpr  = regexp.MustCompile(`(#\d+)\s*=\s*(:\d+)`)
	beginsExpr = regexp.MustCompile(`begins_with\s*\(\s*(#\d+)\s*,\s*(:\d+)\s*\)`)
)

// fakeDynamo understands the key conditions and attribute_not_exists
// conditions this package builds.
type fakeDynamo struct {
	mu        sync.Mutex
	items     map[string]map[string]types.AttributeValue
	err       error
	batchSize []int
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func str(item map[string]types.AttributeValue, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func itemKey(item map[string]types.AttributeValue) string {
	return str(item, "PK") + "|" + str(item, "SK")
}

func (f *fakeDynamo) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[itemKey(in.Key)]}, nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	k := itemKey(in.Item)
	if in.ConditionExpression != nil && f.items[k] != nil {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}
	f.items[k] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	delete(f.items, itemKey(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	cond := aws.ToString(in.KeyConditionExpression)
	eq := equalExpr.FindStringSubmatch(cond)
	pkName := in.ExpressionAttributeNames[eq[1]]
	pkValue := in.ExpressionAttributeValues[eq[2]].(*types.AttributeValueMemberS).Value

	var skName, prefix string
	if m := beginsExpr.FindStringSubmatch(cond); m != nil {
		skName = in.ExpressionAttributeNames[m[1]]
		prefix = in.ExpressionAttributeValues[m[2]].(*types.AttributeValueMemberS).Value
	}
	if skName == "" {
		skName = strings.Replace(pkName, "PK", "SK", 1)
	}

	var out []map[string]types.AttributeValue
	for _, item := range f.items {
		if str(item, pkName) == pkValue && strings.HasPrefix(str(item, skName), prefix) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return str(out[i], skName) < str(out[j], skName) })
	if in.ScanIndexForward != nil && !*in.ScanIndexForward {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return &dynamodb.QueryOutput{Items: out, Count: int32(len(out))}, nil
}

func (f *fakeDynamo) BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, reqs := range in.RequestItems {
		f.batchSize = append(f.batchSize, len(reqs))
		for _, req := range reqs {
			if req.DeleteRequest != nil {
				delete(f.items, itemKey(req.DeleteRequest.Key))
			}
		}
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func (f *fakeDynamo) TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	reasons := make([]types.CancellationReason, len(in.TransactItems))
	failed := false
	for i, ti := range in.TransactItems {
		reasons[i].Code = aws.String("None")
		if ti.Put != nil && ti.Put.ConditionExpression != nil && f.items[itemKey(ti.Put.Item)] != nil {
			reasons[i].Code = aws.String("ConditionalCheckFailed")
			failed = true
		}
	}
	if failed {
		return nil, &types.TransactionCanceledException{
			Message:             aws.String("Transaction cancelled"),
			CancellationReasons: reasons,
		}
	}
	for _, ti := range in.TransactItems {
		if ti.Put != nil {
			f.items[itemKey(ti.Put.Item)] = ti.Put.Item
		}
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}
