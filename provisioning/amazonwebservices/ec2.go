package amazonwebservices

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ec2"

	"github.com/platforge/provisioner/provisioning/domain"
)

const (
	// Amazon Linux 2 in us-east-1.
	ec2ImageID      = "ami-0c02fb55956c7d316"
	ec2InstanceType = "t3.micro"
)

// CreateComputeInstance provisions an EC2 instance inside the startup's
// sub-account.
func (s *AWSService) CreateComputeInstance(ctx context.Context, env *domain.AWSEnvironment, info domain.StartupInfo) *domain.Resource {
	l := s.loggerProvider(ctx)

	instanceName := fmt.Sprintf("%s-server", info.Slug())

	if !s.connected() {
		return s.mockComputeInstance(instanceName, s.stateReason)
	}

	sess, err := s.sessionForAccount(ctx, env.AccountID)
	if err != nil {
		return s.mockComputeInstance(instanceName, err.Error())
	}

	ec2Svc := ec2.New(sess)

	l.Infof("creating EC2 instance %s", instanceName)

	runInput := ec2.RunInstancesInput{
		ImageId:      aws.String(ec2ImageID),
		InstanceType: aws.String(ec2InstanceType),
		MinCount:     aws.Int64(1),
		MaxCount:     aws.Int64(1),
		TagSpecifications: []*ec2.TagSpecification{
			{
				ResourceType: aws.String(ec2.ResourceTypeInstance),
				Tags: []*ec2.Tag{
					{Key: aws.String("Name"), Value: aws.String(instanceName)},
					{Key: aws.String("Environment"), Value: aws.String("startup")},
					{Key: aws.String("CreatedBy"), Value: aws.String("PlatForge")},
				},
			},
		},
	}

	runOutput, err := ec2Svc.RunInstancesWithContext(ctx, &runInput)
	if err != nil || len(runOutput.Instances) == 0 {
		if err == nil {
			err = fmt.Errorf("no instances launched")
		}

		l.Errorf("EC2 creation failed for %s: %s", instanceName, err)
		s.logPermissionRemediation(ctx, err, "ec2:RunInstances", "ec2:DescribeInstances", "ec2:DescribeImages", "ec2:CreateTags", "ec2:DescribeKeyPairs", "ec2:DescribeSecurityGroups", "ec2:DescribeSubnets", "ec2:DescribeVpcs")

		return s.mockComputeInstance(instanceName, err.Error())
	}

	instanceID := aws.StringValue(runOutput.Instances[0].InstanceId)

	// IP assignment lags the launch response.
	time.Sleep(2 * time.Second)

	publicIP, privateIP := "pending", "pending"

	describeOutput, err := ec2Svc.DescribeInstancesWithContext(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []*string{aws.String(instanceID)},
	})
	if err == nil && len(describeOutput.Reservations) > 0 && len(describeOutput.Reservations[0].Instances) > 0 {
		instance := describeOutput.Reservations[0].Instances[0]
		if instance.PublicIpAddress != nil {
			publicIP = aws.StringValue(instance.PublicIpAddress)
		}

		if instance.PrivateIpAddress != nil {
			privateIP = aws.StringValue(instance.PrivateIpAddress)
		}
	}

	sshCommand := "SSH command available after launch"
	if publicIP != "pending" {
		sshCommand = fmt.Sprintf("ssh -i your-key.pem ec2-user@%s", publicIP)
	}

	return &domain.Resource{
		Service:      "AWS EC2",
		Type:         "compute",
		Name:         instanceName,
		InstanceID:   instanceID,
		InstanceType: ec2InstanceType,
		PublicIP:     publicIP,
		PrivateIP:    privateIP,
		Status:       domain.StatusLaunching,
		ConsoleURL:   fmt.Sprintf("https://console.aws.amazon.com/ec2/home?region=%s#InstanceDetails:instanceId=%s", s.creds.Region, instanceID),
		SSHCommand:   sshCommand,
	}
}

func (s *AWSService) mockComputeInstance(instanceName, cause string) *domain.Resource {
	return &domain.Resource{
		Service:      "AWS EC2",
		Type:         "compute",
		Name:         instanceName,
		InstanceID:   fmt.Sprintf("i-%s", domain.RandomHex(17)),
		InstanceType: ec2InstanceType,
		PublicIP:     "mock.ip.address",
		PrivateIP:    "10.0.0.100",
		Status:       domain.StatusMockCreated,
		Note:         fmt.Sprintf("Mock resource - real EC2 creation failed: %s", cause),
		SSHCommand:   "ssh -i your-key.pem ec2-user@mock.ip.address",
	}
}
