package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dineguide/dineguide/internal/model"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestDiskStorePutAndDelete(t *testing.T) {
	ctx := context.Background()
	d, err := NewDiskStore(filepath.Join(t.TempDir(), "media"))
	require.NoError(t, err)

	ref, err := d.Put(ctx, "restaurants/r1", model.Upload{Filename: "front.PNG", Data: pngHeader})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref.AssetID, "restaurants/r1/"))
	assert.True(t, strings.HasSuffix(ref.AssetID, ".png"))

	data, err := os.ReadFile(filepath.Join(d.Dir(), filepath.FromSlash(ref.AssetID)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	require.NoError(t, d.Delete(ctx, ref.AssetID))
	require.NoError(t, d.Delete(ctx, ref.AssetID), "deleting twice is fine")
	assert.Error(t, d.Delete(ctx, "../etc/passwd"))
}

func TestUploadsMustBeImages(t *testing.T) {
	d, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, err = d.Put(context.Background(), "x", model.Upload{Filename: "notes.txt", Data: []byte("hello")})
	assert.True(t, model.IsValidationError(err))

	_, err = d.Put(context.Background(), "x", model.Upload{Filename: "empty.png"})
	assert.True(t, model.IsValidationError(err))
}

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	deletes []string
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	api := &fakeS3{}
	s := NewS3StoreWithAPI(api, "dineguide-images")

	ref, err := s.Put(ctx, "menu", model.Upload{Filename: "soup.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}})
	require.NoError(t, err)
	require.Len(t, api.puts, 1)
	assert.Equal(t, "dineguide-images", aws.ToString(api.puts[0].Bucket))
	assert.Equal(t, ref.AssetID, aws.ToString(api.puts[0].Key))
	assert.Equal(t, "image/jpeg", aws.ToString(api.puts[0].ContentType))

	require.NoError(t, s.Delete(ctx, ref.AssetID))
	assert.Equal(t, []string{ref.AssetID}, api.deletes)

	api.err = errors.New("access denied")
	_, err = s.Put(ctx, "menu", model.Upload{Filename: "soup.jpg", ContentType: "image/jpeg", Data: []byte{1}})
	assert.ErrorIs(t, err, api.err)
}

func TestURLBuilder(t *testing.T) {
	b := NewURLBuilder("https://cdn.example.com/media/")
	assert.Equal(t, "https://cdn.example.com/media/a/b.jpg", b.URL("a/b.jpg", 0, 0))
	assert.Equal(t, "https://cdn.example.com/media/a/b.jpg?h=300&w=400", b.URL("a/b.jpg", 400, 300))
	assert.Equal(t, "https://other.example.com/x.jpg?v=2&w=10", b.URL("https://other.example.com/x.jpg?v=2", 10, 0))
	assert.Equal(t, "", b.URL("", 10, 10))
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", PublicBaseURL("b", "eu-west-1"))
}

func TestURLBuilderResolve(t *testing.T) {
	r := &model.Restaurant{
		MainImage:     &model.ImageRef{AssetID: "main.jpg"},
		GalleryImages: []model.ImageRef{{AssetID: "g.jpg"}},
		Menu: []model.MenuSection{{Items: []model.MenuItem{
			{Name: "Soup", Image: &model.ImageRef{AssetID: "soup.jpg"}},
			{Name: "Bread"},
		}}},
	}
	NewURLBuilder("/media").Resolve(r, 800, 0)
	assert.Equal(t, "/media/main.jpg?w=800", r.MainImage.URL)
	assert.Equal(t, "/media/g.jpg?w=800", r.GalleryImages[0].URL)
	assert.Equal(t, "/media/soup.jpg?w=800", r.Menu[0].Items[0].Image.URL)
	NewURLBuilder("/media").Resolve(nil, 1, 1)
}
