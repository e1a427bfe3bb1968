package amazonwebservices

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/platforge/provisioner/provisioning/domain"
)

type bucketPolicy struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

type policyStatement struct {
	Sid       string            `json:"Sid"`
	Effect    string            `json:"Effect"`
	Principal map[string]string `json:"Principal"`
	Action    string            `json:"Action"`
	Resource  []string          `json:"Resource"`
}

// CreateStorageBucket provisions an S3 bucket for the startup and
// attaches a policy granting its sub-account full access.
func (s *AWSService) CreateStorageBucket(ctx context.Context, env *domain.AWSEnvironment, info domain.StartupInfo) *domain.Resource {
	l := s.loggerProvider(ctx)

	bucketName := fmt.Sprintf("%s-storage-%s", info.Slug(), domain.RandomHex(8))

	if !s.connected() {
		return s.mockStorageBucket(bucketName, s.stateReason)
	}

	sess, err := s.sessionForAccount(ctx, env.AccountID)
	if err != nil {
		return s.mockStorageBucket(bucketName, err.Error())
	}

	s3Svc := s3.New(sess)

	l.Infof("creating S3 bucket %s", bucketName)

	if _, err := s3Svc.CreateBucketWithContext(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucketName),
	}); err != nil {
		l.Errorf("S3 bucket creation failed for %s: %s", bucketName, err)
		s.logPermissionRemediation(ctx, err, "s3:CreateBucket", "s3:PutBucketPolicy")

		return s.mockStorageBucket(bucketName, err.Error())
	}

	policy := bucketPolicy{
		Version: "2012-10-17",
		Statement: []policyStatement{
			{
				Sid:       "StartupAccess",
				Effect:    "Allow",
				Principal: map[string]string{"AWS": fmt.Sprintf("arn:aws:iam::%s:root", env.AccountID)},
				Action:    "s3:*",
				Resource: []string{
					fmt.Sprintf("arn:aws:s3:::%s", bucketName),
					fmt.Sprintf("arn:aws:s3:::%s/*", bucketName),
				},
			},
		},
	}

	policyJSON, err := json.Marshal(policy)
	if err == nil {
		_, err = s3Svc.PutBucketPolicyWithContext(ctx, &s3.PutBucketPolicyInput{
			Bucket: aws.String(bucketName),
			Policy: aws.String(string(policyJSON)),
		})
	}

	if err != nil {
		l.Warningf("bucket policy for %s not applied: %s", bucketName, err)
	}

	return &domain.Resource{
		Service:    "AWS S3",
		Type:       "storage",
		Name:       bucketName,
		BucketName: bucketName,
		Region:     s.creds.Region,
		URL:        s3ConsoleURL(bucketName),
		Status:     domain.StatusActive,
		ConsoleURL: s3ConsoleURL(bucketName),
		Endpoint:   fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucketName, s.creds.Region),
	}
}

func (s *AWSService) mockStorageBucket(bucketName, cause string) *domain.Resource {
	return &domain.Resource{
		Service:    "AWS S3",
		Type:       "storage",
		Name:       bucketName,
		BucketName: bucketName,
		Region:     s.creds.Region,
		Status:     domain.StatusMockCreated,
		Note:       fmt.Sprintf("Mock resource - real S3 creation failed: %s", cause),
		ConsoleURL: s3ConsoleURL(bucketName),
		Endpoint:   fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucketName, s.creds.Region),
	}
}

func s3ConsoleURL(bucketName string) string {
	return fmt.Sprintf("https://s3.console.aws.amazon.com/s3/buckets/%s", bucketName)
}
