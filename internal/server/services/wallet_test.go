package services

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/skillswap/internal/common"
	"github.com/dmitrijs2005/skillswap/internal/server/models"
)

func TestGetWallet(t *testing.T) {
	f := newFixture(t)
	book(t, f, 5)

	f.expectCommit()
	_, err := f.ledger.AdminAdjust(context.Background(), "learner", 3, "bonus")
	require.NoError(t, err)

	f.expectCommit()
	w, err := f.wallet.GetWallet(context.Background(), "learner", 0)
	require.NoError(t, err)

	assert.Equal(t, int64(7), w.Balance)
	assert.Equal(t, int64(3), w.TotalEarned)
	assert.Equal(t, int64(1), w.TotalSpent)
	require.Len(t, w.Transactions, 2)
	assert.Equal(t, models.KindAdminAdjust, w.Transactions[0].Kind)

	f.expectCommit()
	w, err = f.wallet.GetWallet(context.Background(), "learner", 1)
	require.NoError(t, err)
	assert.Len(t, w.Transactions, 1)

	f.expectRollback()
	_, err = f.wallet.GetWallet(context.Background(), "ghost", 0)
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = f.wallet.GetWallet(context.Background(), "learner", -1)
	require.ErrorIs(t, err, common.ErrValidation)
	f.verify(t)
}

func TestRenderStatement(t *testing.T) {
	sid := "s-1"
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	body, err := RenderStatement("u", []*models.Transaction{
		{ID: "t-2", FromUserID: "u", ToUserID: "m", Amount: 1, Kind: models.KindSessionBooking, SessionID: &sid, CreatedAt: at},
		{ID: "t-1", FromUserID: models.TreasuryID, ToUserID: "u", Amount: 100, Kind: models.KindAdminAdjust, CreatedAt: at},
	})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, statementHeader, records[0])
	assert.Equal(t, []string{"t-2", "2026-03-04T05:06:07Z", "session-booking", "out", "m", "-1", "s-1"}, records[1])
	assert.Equal(t, []string{"t-1", "2026-03-04T05:06:07Z", "admin-adjust", "in", models.TreasuryID, "100", ""}, records[2])
}

func TestStatementKey(t *testing.T) {
	key := StatementKey("u-1", time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC))
	assert.Regexp(t, regexp.MustCompile(`^statements/u-1/2026/02/03/[0-9a-f-]{36}\.csv$`), key)
}

// stubS3 replaces the S3 seams for one test.
func stubS3(t *testing.T, putErr, presignErr error) (uploaded *string, body *[]byte, expires *time.Duration) {
	t.Helper()
	origLoad, origNew, origPresign, origPut, origGet := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient, putObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient, putObject, presignGetObject = origLoad, origNew, origPresign, origPut, origGet
	})

	var key string
	var data []byte
	var exp time.Duration

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var o s3.Options
		for _, fn := range optFns {
			fn(&o)
		}
		require.NotNil(t, o.BaseEndpoint)
		assert.True(t, o.UsePathStyle)
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		if putErr != nil {
			return nil, putErr
		}
		key = *in.Key
		b, err := io.ReadAll(in.Body)
		require.NoError(t, err)
		data = b
		return &s3.PutObjectOutput{}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if presignErr != nil {
			return nil, presignErr
		}
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		exp = po.Expires
		return &v4.PresignedHTTPRequest{URL: "http://minio/" + *in.Bucket + "/" + *in.Key + "?sig"}, nil
	}

	return &key, &data, &exp
}

func TestExportStatement(t *testing.T) {
	f := newFixture(t)
	book(t, f, 5)
	key, body, expires := stubS3(t, nil, nil)

	gotKey, url, err := f.wallet.ExportStatement(context.Background(), "learner")
	require.NoError(t, err)

	assert.Equal(t, *key, gotKey)
	assert.True(t, strings.HasPrefix(gotKey, "statements/learner/"))
	assert.Equal(t, "http://minio/statements/"+gotKey+"?sig", url)
	assert.Equal(t, 15*time.Minute, *expires)
	assert.Contains(t, string(*body), "session-booking,out,mentor,-1,")
}

func TestExportStatement_Errors(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)
		stubS3(t, nil, nil)

		_, _, err := f.wallet.ExportStatement(context.Background(), "ghost")
		require.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("upload fails", func(t *testing.T) {
		f := newFixture(t)
		f.store.addUser("u", 0)
		stubS3(t, errors.New("bucket missing"), nil)

		_, _, err := f.wallet.ExportStatement(context.Background(), "u")
		require.ErrorContains(t, err, "upload statement: bucket missing")
	})

	t.Run("presign fails", func(t *testing.T) {
		f := newFixture(t)
		f.store.addUser("u", 0)
		stubS3(t, nil, errors.New("bad creds"))

		_, _, err := f.wallet.ExportStatement(context.Background(), "u")
		require.ErrorContains(t, err, "presign statement: bad creds")
	})

	t.Run("aws config fails", func(t *testing.T) {
		f := newFixture(t)
		f.store.addUser("u", 0)
		stubS3(t, nil, nil)
		loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
			return aws.Config{}, errors.New("no region")
		}

		_, _, err := f.wallet.ExportStatement(context.Background(), "u")
		require.ErrorContains(t, err, "s3 client: no region")
	})
}
