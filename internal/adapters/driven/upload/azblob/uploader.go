// Package azblob stores uploaded media in an Azure Blob Storage container.
//
// Connection strings follow the standard Azure format. A BlobEndpoint with
// an http:// scheme is accepted so a local Azurite emulator can be used.
package azblob

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/google/uuid"

	"github.com/psdshow/vanilla/internal/core/domain"
	"github.com/psdshow/vanilla/internal/core/ports/driven"
	"github.com/psdshow/vanilla/internal/logger"
)

// Ensure Uploader implements the interface.
var _ driven.MediaUploader = (*Uploader)(nil)

// Uploader writes files as block blobs.
type Uploader struct {
	client    *azblob.Client
	container string

	mu            sync.Mutex
	containerInit bool
}

// ConnectionParams are the fields of an Azure storage connection string
// that the uploader uses.
type ConnectionParams struct {
	AccountName string
	AccountKey  string
	ServiceURL  string
}

// ParseConnectionString extracts account credentials and the blob endpoint.
func ParseConnectionString(connectionString string) (ConnectionParams, error) {
	fields := make(map[string]string)
	for _, part := range strings.Split(connectionString, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || key == "" {
			continue
		}
		fields[key] = value
	}

	params := ConnectionParams{
		AccountName: fields["AccountName"],
		AccountKey:  fields["AccountKey"],
		ServiceURL:  strings.TrimRight(fields["BlobEndpoint"], "/"),
	}
	if params.AccountName == "" || params.AccountKey == "" {
		return ConnectionParams{}, fmt.Errorf("%w: connection string needs AccountName and AccountKey",
			domain.ErrInvalidInput)
	}
	if params.ServiceURL == "" {
		suffix := fields["EndpointSuffix"]
		if suffix == "" {
			suffix = "core.windows.net"
		}
		protocol := fields["DefaultEndpointsProtocol"]
		if protocol == "" {
			protocol = "https"
		}
		params.ServiceURL = fmt.Sprintf("%s://%s.blob.%s", protocol, params.AccountName, suffix)
	}
	return params, nil
}

// New creates an uploader for container.
func New(connectionString, container string) (*Uploader, error) {
	if container == "" {
		return nil, fmt.Errorf("%w: container name is required", domain.ErrInvalidInput)
	}
	params, err := ParseConnectionString(connectionString)
	if err != nil {
		return nil, err
	}

	credential, err := azblob.NewSharedKeyCredential(params.AccountName, params.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("create shared key credential: %w", err)
	}

	var opts *azblob.ClientOptions
	if strings.HasPrefix(strings.ToLower(params.ServiceURL), "http://") {
		opts = &azblob.ClientOptions{
			ClientOptions: azcore.ClientOptions{InsecureAllowCredentialWithHTTP: true},
		}
	}

	client, err := azblob.NewClientWithSharedKeyCredential(params.ServiceURL, credential, opts)
	if err != nil {
		return nil, fmt.Errorf("create blob client: %w", err)
	}
	return &Uploader{client: client, container: container}, nil
}

// Upload stores file under a unique name and returns its blob URL.
func (u *Uploader) Upload(ctx context.Context, file *domain.File) (*domain.UploadResult, error) {
	if file == nil {
		return nil, fmt.Errorf("%w: file is required", domain.ErrInvalidInput)
	}
	if err := u.ensureContainer(ctx); err != nil {
		return nil, err
	}

	name := BlobName(file.Name, time.Now())
	blobClient := u.client.ServiceClient().NewContainerClient(u.container).NewBlockBlobClient(name)

	contentType := file.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := blobClient.UploadBuffer(ctx, file.Content, &azblob.UploadBufferOptions{
		Metadata: map[string]*string{"filename": to.Ptr(file.Name)},
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: to.Ptr(contentType),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("blob upload failed: %w", err)
	}
	logger.Debug("Uploaded %s to %s (%d bytes)", file.Name, name, len(file.Content))

	return &domain.UploadResult{
		URL:      blobClient.URL(),
		Name:     file.Name,
		MIMEType: contentType,
		Size:     int64(len(file.Content)),
	}, nil
}

func (u *Uploader) ensureContainer(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.containerInit {
		return nil
	}

	_, err := u.client.CreateContainer(ctx, u.container, nil)
	if err != nil && !isContainerExists(err) {
		return fmt.Errorf("ensure container %s: %w", u.container, err)
	}
	u.containerInit = true
	return nil
}

func isContainerExists(err error) bool {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) && respErr.ErrorCode == "ContainerAlreadyExists" {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "containeralreadyexists")
}

// BlobName returns a collision-free blob path for a file uploaded at t,
// grouped by date and keeping the original extension.
func BlobName(fileName string, t time.Time) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("%s/%s%s", t.UTC().Format("2006/01/02"), uuid.NewString(), ext)
}
