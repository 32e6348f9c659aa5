package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Leonardo2020-col/qr-system-pay/internal/domain"
)

// FotoBucket almacena las fotos de las personas en un bucket S3
type FotoBucket struct {
	BucketName string
	Region     string
	Client     *s3.Client
}

// NewFotoBucket initializes the S3-backed photo storage
func NewFotoBucket(bucketName, region string) (*FotoBucket, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("bucket name is not set in environment variables")
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %v", err)
	}

	return &FotoBucket{
		BucketName: bucketName,
		Region:     region,
		Client:     s3.NewFromConfig(cfg),
	}, nil
}

var _ domain.FotoStorage = (*FotoBucket)(nil)

// Subir sube la foto al bucket y devuelve su URL pública. El nombre combina
// DNI y timestamp para que las resubidas no pisen fotos anteriores en vuelo.
func (f *FotoBucket) Subir(contenido []byte, contentType, dni string) (string, error) {
	filename := fmt.Sprintf("%s-%d.jpg", dni, time.Now().Unix())

	putObjectInput := &s3.PutObjectInput{
		Bucket: aws.String(f.BucketName),
		Key:    aws.String(filename),
		Body:   bytes.NewReader(contenido),
	}
	if contentType != "" {
		putObjectInput.ContentType = aws.String(contentType)
	}

	if _, err := f.Client.PutObject(context.TODO(), putObjectInput); err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}

	url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", f.BucketName, filename)
	return url, nil
}

// Eliminar borra la foto referenciada por su URL pública
func (f *FotoBucket) Eliminar(fotoURL string) error {
	partes := strings.Split(fotoURL, "/")
	filename := partes[len(partes)-1]
	if filename == "" {
		return fmt.Errorf("URL de foto inválida: %s", fotoURL)
	}

	_, err := f.Client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(f.BucketName),
		Key:    aws.String(filename),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %v", err)
	}

	return nil
}
