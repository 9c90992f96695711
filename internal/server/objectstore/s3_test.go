package objectstore

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sc "github.com/dmitrijs2005/evidencevault/internal/server/config"
)

func testConfig() *sc.Config {
	return &sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "evidence",
	}
}

// stubAWS replaces the client constructors and restores them on cleanup.
func stubAWS(t *testing.T) {
	t.Helper()

	origLoad, origNewS3, origNewPre := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	origPut, origDel, origPresign := putObject, deleteObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		putObject = origPut
		deleteObject = origDel
		presignGetObject = origPresign
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client { return &s3.Client{} }
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
}

func TestNewS3Store_AppliesConfig(t *testing.T) {
	stubAWS(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minioadmin", creds.AccessKeyID)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	st, err := NewS3Store(context.Background(), testConfig())
	require.NoError(t, err)
	require.NotNil(t, st)

	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "evidence", st.bucket)
}

func TestNewS3Store_LoadError(t *testing.T) {
	stubAWS(t)
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := NewS3Store(context.Background(), testConfig())
	if err == nil || err.Error() != "load-fail" {
		t.Fatalf("expected load-fail, got %v", err)
	}
}

func TestS3Store_Put(t *testing.T) {
	stubAWS(t)
	st, err := NewS3Store(context.Background(), testConfig())
	require.NoError(t, err)

	var got *s3.PutObjectInput
	var body []byte
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		got = in
		body, _ = io.ReadAll(in.Body)
		return &s3.PutObjectOutput{}, nil
	}

	require.NoError(t, st.Put(context.Background(), "reports/r1/1_a.jpg", []byte{0, 1, 2}, "image/jpeg"))
	assert.Equal(t, "evidence", *got.Bucket)
	assert.Equal(t, "reports/r1/1_a.jpg", *got.Key)
	assert.Equal(t, "image/jpeg", *got.ContentType)
	assert.Equal(t, int64(3), *got.ContentLength)
	assert.Equal(t, []byte{0, 1, 2}, body)

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("put-fail")
	}
	err = st.Put(context.Background(), "k", nil, "x")
	assert.ErrorContains(t, err, "put-fail")
}

func TestS3Store_Delete(t *testing.T) {
	stubAWS(t)
	st, err := NewS3Store(context.Background(), testConfig())
	require.NoError(t, err)

	var key string
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		key = *in.Key
		return &s3.DeleteObjectOutput{}, nil
	}
	require.NoError(t, st.Delete(context.Background(), "k1"))
	assert.Equal(t, "k1", key)

	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return nil, errors.New("delete-fail")
	}
	assert.ErrorContains(t, st.Delete(context.Background(), "k1"), "delete-fail")
}

func TestS3Store_PresignGet(t *testing.T) {
	stubAWS(t)
	st, err := NewS3Store(context.Background(), testConfig())
	require.NoError(t, err)

	var expires time.Duration
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		expires = po.Expires
		return &v4.PresignedHTTPRequest{URL: "http://signed/" + *in.Key}, nil
	}

	u, err := st.PresignGet(context.Background(), "k1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "http://signed/k1", u)
	assert.Equal(t, time.Minute, expires)

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-fail")
	}
	_, err = st.PresignGet(context.Background(), "k1", time.Minute)
	assert.ErrorContains(t, err, "presign-fail")
}
