// Package dynamodb stores users, canvases and canvas children in a single
// DynamoDB table.
//
// Key layout:
//
//	USER#<id>     PROFILE                         user
//	EMAIL#<email> EMAIL                           unique email claim
//	CANVAS#<id>   METADATA                        canvas (GSI1: USER#<owner> / CANVAS#<created>#<id>)
//	CANVAS#<id>   NOTE#<noteId>                   note
//	CANVAS#<id>   MSG#<blockId>#<created>#<id>    message
//	CANVAS#<id>   PDF#<blockId>                   pdf
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	pkgerrors "github.com/Labib591/zyra/pkg/errors"
)

// DefaultIndexName is the owner index used to list canvases
const DefaultIndexName = "GSI1"

// maxBatchWrite is the DynamoDB BatchWriteItem limit
const maxBatchWrite = 25

// sortableTime keeps a fixed width so sort keys order chronologically.
const sortableTime = "2006-01-02T15:04:05.000000000Z"

// API is the subset of the DynamoDB client the repositories use
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Table is shared by every repository in the package
type Table struct {
	client    API
	name      string
	indexName string
	logger    *zap.Logger
}

// NewTable creates a table handle
func NewTable(client API, name, indexName string, logger *zap.Logger) *Table {
	if indexName == "" {
		indexName = DefaultIndexName
	}
	return &Table{
		client:    client,
		name:      name,
		indexName: indexName,
		logger:    logger,
	}
}

// Users returns the user repository
func (t *Table) Users() *UserRepository { return &UserRepository{t} }

// Canvases returns the canvas repository
func (t *Table) Canvases() *CanvasRepository { return &CanvasRepository{t} }

// Notes returns the note repository
func (t *Table) Notes() *NoteRepository { return &NoteRepository{t} }

// Messages returns the message repository
func (t *Table) Messages() *MessageRepository { return &MessageRepository{t} }

// PDFs returns the PDF repository
func (t *Table) PDFs() *PDFRepository { return &PDFRepository{t} }

func userPK(id string) string { return "USER#" + id }
func emailPK(email string) string { return "EMAIL#" + email }
func canvasPK(id string) string { return "CANVAS#" + id }
func notePrefix() string { return "NOTE#" }
func noteSK(id string) string { return notePrefix() + id }
func msgPrefix() string { return "MSG#" }
func msgBlockPrefix(b string) string { return msgPrefix() + b + "#" }
func pdfPrefix() string { return "PDF#" }
func pdfSK(blockID string) string { return pdfPrefix() + blockID }

func msgSK(blockID string, created time.Time, id string) string {
	return msgBlockPrefix(blockID) + created.UTC().Format(sortableTime) + "#" + id
}

func canvasOwnerSK(created time.Time, id string) string {
	return "CANVAS#" + created.UTC().Format(sortableTime) + "#" + id
}

func key(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// putNew writes item only when no item with the same key exists
func (t *Table) putNew(ctx context.Context, item map[string]types.AttributeValue, op, conflictMsg string) error {
	expr, err := expression.NewBuilder().
		WithCondition(expression.Name("PK").AttributeNotExists()).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	_, err = t.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(t.name),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	return t.translate(op, err, conflictMsg)
}

func (t *Table) put(ctx context.Context, item map[string]types.AttributeValue, op string) error {
	_, err := t.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.name),
		Item:      item,
	})
	return t.translate(op, err, "")
}

func (t *Table) get(ctx context.Context, pk, sk, op string) (map[string]types.AttributeValue, error) {
	out, err := t.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(t.name),
		Key:            key(pk, sk),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, t.translate(op, err, "")
	}
	return out.Item, nil
}

func (t *Table) delete(ctx context.Context, pk, sk, op string) error {
	_, err := t.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(t.name),
		Key:       key(pk, sk),
	})
	return t.translate(op, err, "")
}

// queryPrefix returns every item under pk whose sort key starts with prefix
func (t *Table) queryPrefix(ctx context.Context, pk, prefix, op string) ([]map[string]types.AttributeValue, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(pk)).
		And(expression.KeyBeginsWith(expression.Key("SK"), prefix))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	return t.query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(t.name),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ConsistentRead:            aws.Bool(true),
	}, op)
}

func (t *Table) query(ctx context.Context, input *dynamodb.QueryInput, op string) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	paginator := dynamodb.NewQueryPaginator(t.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, t.translate(op, err, "")
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

// deleteItems removes the given items in batches and returns how many were
// deleted.
func (t *Table) deleteItems(ctx context.Context, items []map[string]types.AttributeValue, op string) (int, error) {
	deleted := 0
	for start := 0; start < len(items); start += maxBatchWrite {
		end := min(start+maxBatchWrite, len(items))

		requests := make([]types.WriteRequest, 0, end-start)
		for _, item := range items[start:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: map[string]types.AttributeValue{
					"PK": item["PK"],
					"SK": item["SK"],
				}},
			})
		}

		pending := map[string][]types.WriteRequest{t.name: requests}
		for attempt := 0; len(pending[t.name]) > 0; attempt++ {
			if attempt > 0 {
				if attempt > 5 {
					return deleted, pkgerrors.NewDatabaseError(op, errors.New("unprocessed items after retries"))
				}
				time.Sleep(time.Duration(attempt*50) * time.Millisecond)
			}
			out, err := t.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
			if err != nil {
				return deleted, t.translate(op, err, "")
			}
			done := len(pending[t.name]) - len(out.UnprocessedItems[t.name])
			deleted += done
			pending = map[string][]types.WriteRequest{t.name: out.UnprocessedItems[t.name]}
		}
	}

	t.logger.Debug("Batch delete completed", zap.String("operation", op), zap.Int("deleted", deleted))
	return deleted, nil
}

// translate maps DynamoDB failures onto application errors
func (t *Table) translate(op string, err error, conflictMsg string) error {
	if err == nil {
		return nil
	}

	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return pkgerrors.NewConflictError(conflictMsg).WithCause(err)
	}
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, reason := range tce.CancellationReasons {
			if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
				return pkgerrors.NewConflictError(conflictMsg).WithCause(err)
			}
		}
	}

	var ae smithy.APIError
	if errors.As(err, &ae) {
		switch ae.ErrorCode() {
		case "ProvisionedThroughputExceededException", "ThrottlingException", "RequestLimitExceeded":
			t.logger.Warn("DynamoDB throttled", zap.String("operation", op), zap.String("code", ae.ErrorCode()))
			return pkgerrors.NewRateLimitError("").WithCause(err)
		}
	}

	t.logger.Error("DynamoDB operation failed", zap.String("operation", op), zap.Error(err))
	return pkgerrors.NewDatabaseError(op, err)
}
