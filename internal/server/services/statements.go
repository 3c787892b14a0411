package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/skillswap/internal/server/models"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

var statementHeader = []string{"id", "created_at", "kind", "direction", "counterparty", "amount", "session_id"}

// StatementKey returns a fresh object key for a user's statement.
func StatementKey(userID string, at time.Time) string {
	return fmt.Sprintf("statements/%s/%04d/%02d/%02d/%s.csv", userID, at.Year(), int(at.Month()), at.Day(), uuid.NewString())
}

// RenderStatement writes the history as CSV, one row per transaction,
// amounts signed from the user's point of view.
func RenderStatement(userID string, txs []*models.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(statementHeader); err != nil {
		return nil, err
	}

	for _, t := range txs {
		amount := t.Amount
		if t.Direction(userID) == "out" {
			amount = -amount
		}
		sessionID := ""
		if t.SessionID != nil {
			sessionID = *t.SessionID
		}
		if err := w.Write([]string{
			t.ID,
			t.CreatedAt.UTC().Format(time.RFC3339),
			string(t.Kind),
			t.Direction(userID),
			t.Counterparty(userID),
			strconv.FormatInt(amount, 10),
			sessionID,
		}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *WalletService) getS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// ExportStatement uploads the user's full history as CSV and returns the
// object key with a presigned download URL.
func (s *WalletService) ExportStatement(ctx context.Context, userID string) (key string, url string, err error) {
	ctx, span := startSpan(ctx, "Wallet.ExportStatement")
	defer func() { endSpan(span, err) }()
	userID = models.CanonicalID(userID)

	if _, err := s.repomanager.Users(s.db).Get(ctx, userID); err != nil {
		return "", "", err
	}

	history, err := s.repomanager.Transactions(s.db).ListByUser(ctx, userID, 0)
	if err != nil {
		return "", "", err
	}

	body, err := RenderStatement(userID, history)
	if err != nil {
		return "", "", fmt.Errorf("render statement: %w", err)
	}

	client, err := s.getS3Client(ctx)
	if err != nil {
		return "", "", fmt.Errorf("s3 client: %w", err)
	}

	bucket := s.config.S3Bucket
	key = StatementKey(userID, time.Now().UTC())

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/csv"),
	}); err != nil {
		return "", "", fmt.Errorf("upload statement: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.StatementURLValidity))
	if err != nil {
		return "", "", fmt.Errorf("presign statement: %w", err)
	}

	s.logger.Info(ctx, "statement exported", "user_id", userID, "key", key, "rows", len(history))
	return key, req.URL, nil
}
