// Where: internal/usecase/publish/names.go
// What: Task naming for generate and publish tasks.
// Why: Task names are the user-visible handle of every step and must be stable.
package publish

import (
	"unicode"
	"unicode/utf8"

	"github.com/poruru/multipub/internal/domain/coordinate"
)

// Lifecycle task names.
const (
	TaskPublish  = "publish"
	TaskGenerate = "generate"
)

// PublishTaskName returns publish<Pub>PublicationTo<Repo>Repository.
func PublishTaskName(publication, repository string) string {
	return "publish" + capitalize(publication) + "PublicationTo" + capitalize(repository) + "Repository"
}

// PublishAllTaskName returns publishAllPublicationsTo<Repo>Repository.
func PublishAllTaskName(repository string) string {
	return "publishAllPublicationsTo" + capitalize(repository) + "Repository"
}

// MetadataTaskName returns generateMetadataFileFor<Pub>Publication.
func MetadataTaskName(publication string) string {
	return "generateMetadataFileFor" + capitalize(publication) + "Publication"
}

// DescriptorTaskName returns generatePomFileFor<Pub>Publication for Maven
// and generateDescriptorFileFor<Pub>Publication for Ivy.
func DescriptorTaskName(kind coordinate.Kind, publication string) string {
	if kind == coordinate.KindIvy {
		return "generateDescriptorFileFor" + capitalize(publication) + "Publication"
	}
	return "generatePomFileFor" + capitalize(publication) + "Publication"
}

func capitalize(value string) string {
	r, size := utf8.DecodeRuneInString(value)
	if size == 0 {
		return value
	}
	return string(unicode.ToUpper(r)) + value[size:]
}
