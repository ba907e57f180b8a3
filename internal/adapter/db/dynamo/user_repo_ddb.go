package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	domain "github.com/indianathe3rdKing/quicklog-api/internal/domain/user"
	apperrors "github.com/indianathe3rdKing/quicklog-api/pkg/errors"
)

// Idempotent reads are retried with exponential backoff; writes are not.
const (
	readMaxRetries = 2
	readBaseDelay  = 50 * time.Millisecond
)

// API is the subset of the DynamoDB client used by the repository.
// *dynamodb.Client satisfies it.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// UserRepoDDB implements the Repository interface against a DynamoDB table
// keyed by the user id.
type UserRepoDDB struct {
	client API         // DynamoDB client, constructed once at startup
	table  string      // Backing table name
	log    *zap.Logger // Structured logger for storage operations
}

// NewUserRepoDDB creates a new instance of UserRepoDDB.
func NewUserRepoDDB(client API, table string, log *zap.Logger) *UserRepoDDB {
	return &UserRepoDDB{client: client, table: table, log: log}
}

// userItem represents the stored shape of a user record.
type userItem struct {
	ID        string   `dynamodbav:"id"`        // Partition key
	Name      *string  `dynamodbav:"name"`      // Display name, may be unset
	Email     *string  `dynamodbav:"email"`     // Contact address, may be unset
	CreatedAt string   `dynamodbav:"createdAt"` // RFC 3339 creation timestamp
	Words     wordList `dynamodbav:"words"`     // Saved words, canonically plain strings
	Version   int64    `dynamodbav:"version"`   // Incremented on every word-list write
}

// wordList is an ordered list of saved words. Older records written by the
// first revision of the API stored list members as {"word": ...} maps; the
// list is normalized to plain strings on read and written back canonically.
type wordList []string

// UnmarshalDynamoDBAttributeValue implements attributevalue.Unmarshaler.
func (w *wordList) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch v := av.(type) {
	case nil, *types.AttributeValueMemberNULL:
		*w = nil
		return nil
	case *types.AttributeValueMemberL:
		out := make([]string, 0, len(v.Value))
		for _, member := range v.Value {
			switch m := member.(type) {
			case *types.AttributeValueMemberS:
				out = append(out, m.Value)
			case *types.AttributeValueMemberM:
				s, ok := m.Value["word"].(*types.AttributeValueMemberS)
				if !ok {
					return fmt.Errorf("word list entry has no string word attribute")
				}
				out = append(out, s.Value)
			default:
				return fmt.Errorf("unsupported word list entry type %T", member)
			}
		}
		*w = out
		return nil
	default:
		return fmt.Errorf("words attribute is not a list: %T", av)
	}
}

// itemFromDomain maps a domain user onto its stored shape.
func itemFromDomain(u *domain.User) userItem {
	return userItem{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339Nano),
		Words:     wordList(u.Words),
		Version:   u.Version,
	}
}

// toDomain maps a stored item back onto the domain entity.
func toDomain(item userItem) (*domain.User, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil && item.CreatedAt != "" {
		return nil, fmt.Errorf("parse createdAt for user %s: %w", item.ID, err)
	}

	return &domain.User{
		ID:        item.ID,
		Name:      item.Name,
		Email:     item.Email,
		CreatedAt: createdAt,
		Words:     []string(item.Words),
		Version:   item.Version,
	}, nil
}

// key builds the primary key attribute map for a user id.
func (r *UserRepoDDB) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

// isConditionalCheckFailed reports whether err is a failed write precondition.
func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// withReadRetry retries an idempotent storage call with bounded backoff.
func withReadRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(readMaxRetries, retry.NewExponential(readBaseDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// Create persists a new user record. The write is unconditional: the id is
// freshly generated, so overwrite semantics are acceptable.
func (r *UserRepoDDB) Create(ctx context.Context, u *domain.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	item, err := attributevalue.MarshalMap(itemFromDomain(u))
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		r.log.Error("failed to create user in store", zap.Error(err), zap.String("id", u.ID))
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in store", zap.String("id", u.ID))
	return nil
}

// GetByID retrieves a user record by its unique id. The read is strongly
// consistent so that the optimistic version check on word removal sees the
// latest committed state.
func (r *UserRepoDDB) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var out *dynamodb.GetItemOutput
	err := withReadRetry(ctx, func(ctx context.Context) error {
		var err error
		out, err = r.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName:      aws.String(r.table),
			Key:            r.key(id),
			ConsistentRead: aws.Bool(true),
		})
		return err
	})
	if err != nil {
		r.log.Error("failed to get user from store", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if len(out.Item) == 0 {
		r.log.Warn("user not found", zap.String("id", id))
		return nil, apperrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%s", id))
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return toDomain(item)
}

// GetWords retrieves only the word list of a user record. An absent record or
// attribute yields an empty list, never an error.
func (r *UserRepoDDB) GetWords(ctx context.Context, id string) ([]string, error) {
	proj := expression.NamesList(expression.Name("words"))
	expr, err := expression.NewBuilder().WithProjection(proj).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build projection: %w", err)
	}

	var out *dynamodb.GetItemOutput
	err = withReadRetry(ctx, func(ctx context.Context) error {
		var err error
		out, err = r.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName:                aws.String(r.table),
			Key:                      r.key(id),
			ProjectionExpression:     expr.Projection(),
			ExpressionAttributeNames: expr.Names(),
		})
		return err
	})
	if err != nil {
		r.log.Error("failed to get words from store", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get words: %w", err)
	}

	if len(out.Item) == 0 {
		r.log.Debug("words requested for unknown user", zap.String("id", id))
		return []string{}, nil
	}

	var item struct {
		Words wordList `dynamodbav:"words"`
	}
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal words: %w", err)
	}

	if item.Words == nil {
		return []string{}, nil
	}
	return []string(item.Words), nil
}

// Update performs a partial update of name and email on an existing record.
// A nil field is written as unset. The write is conditional on the record
// existing; an unknown id maps to not found.
func (r *UserRepoDDB) Update(ctx context.Context, id string, name, email *string) (*domain.User, error) {
	update := expression.
		Set(expression.Name("name"), expression.Value(name)).
		Set(expression.Name("email"), expression.Value(email))
	cond := expression.AttributeExists(expression.Name("id"))

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build update expression: %w", err)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       r.key(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			r.log.Warn("update on unknown user", zap.String("id", id))
			return nil, apperrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%s", id))
		}
		r.log.Error("failed to update user in store", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated user: %w", err)
	}

	r.log.Info("user updated in store", zap.String("id", id))
	return toDomain(item)
}

// Delete removes a user record. The delete is unconditional and idempotent:
// deleting an unknown id succeeds.
func (r *UserRepoDDB) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       r.key(id),
	})
	if err != nil {
		r.log.Error("failed to delete user in store", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	r.log.Info("user deleted in store", zap.String("id", id))
	return nil
}

// List retrieves the complete collection of user records via a full table
// scan, following pagination until the scan is exhausted.
func (r *UserRepoDDB) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	var startKey map[string]types.AttributeValue

	for {
		var out *dynamodb.ScanOutput
		err := withReadRetry(ctx, func(ctx context.Context) error {
			var err error
			out, err = r.client.Scan(ctx, &dynamodb.ScanInput{
				TableName:         aws.String(r.table),
				ExclusiveStartKey: startKey,
			})
			return err
		})
		if err != nil {
			r.log.Error("failed to scan users", zap.Error(err))
			return nil, fmt.Errorf("failed to list users: %w", err)
		}

		var items []userItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal users: %w", err)
		}

		for _, item := range items {
			u, err := toDomain(item)
			if err != nil {
				return nil, err
			}
			users = append(users, *u)
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return users, nil
}

// AppendWord atomically appends a word to the record's word list, creating the
// list if it does not exist yet. The write requires the record to exist; an
// unknown id maps to not found rather than silently creating a record.
func (r *UserRepoDDB) AppendWord(ctx context.Context, id, word string) ([]string, error) {
	update := expression.
		Set(expression.Name("words"),
			expression.ListAppend(
				expression.IfNotExists(expression.Name("words"), expression.Value([]string{})),
				expression.Value([]string{word}),
			)).
		Add(expression.Name("version"), expression.Value(1))
	cond := expression.AttributeExists(expression.Name("id"))

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build append expression: %w", err)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       r.key(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			r.log.Warn("append word on unknown user", zap.String("id", id))
			return nil, apperrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%s", id))
		}
		r.log.Error("failed to append word in store", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to append word: %w", err)
	}

	var item struct {
		Words wordList `dynamodbav:"words"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal words: %w", err)
	}

	r.log.Info("word appended in store", zap.String("id", id), zap.Int("count", len(item.Words)))
	return []string(item.Words), nil
}

// ReplaceWords overwrites the record's word list, conditional on the record
// version still matching the one seen at read time. A lost race surfaces as a
// conflict so the caller can re-read and retry. Records written before the
// version counter existed have no version attribute and unmarshal as 0; for
// those the condition accepts an absent attribute as well, since a bare
// equality check against a missing attribute never holds.
func (r *UserRepoDDB) ReplaceWords(ctx context.Context, id string, words []string, version int64) error {
	update := expression.
		Set(expression.Name("words"), expression.Value(words)).
		Add(expression.Name("version"), expression.Value(1))

	versionCheck := expression.Equal(expression.Name("version"), expression.Value(version))
	if version == 0 {
		versionCheck = expression.Or(
			expression.AttributeNotExists(expression.Name("version")),
			versionCheck,
		)
	}
	cond := expression.And(
		expression.AttributeExists(expression.Name("id")),
		versionCheck,
	)

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build replace expression: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       r.key(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			r.log.Debug("word list version check failed", zap.String("id", id), zap.Int64("seen_version", version))
			return apperrors.NewConflictError("words", fmt.Sprintf("word list changed concurrently: id=%s", id))
		}
		r.log.Error("failed to replace words in store", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("failed to replace words: %w", err)
	}

	r.log.Info("word list replaced in store", zap.String("id", id), zap.Int("count", len(words)))
	return nil
}
