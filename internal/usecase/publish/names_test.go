package publish

import (
	"testing"

	"github.com/poruru/multipub/internal/domain/coordinate"
)

func TestTaskNames(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{got: PublishTaskName("cppDebug", "mavenLocal"), want: "publishCppDebugPublicationToMavenLocalRepository"},
		{got: PublishAllTaskName("remote"), want: "publishAllPublicationsToRemoteRepository"},
		{got: MetadataTaskName("cpp"), want: "generateMetadataFileForCppPublication"},
		{got: DescriptorTaskName(coordinate.KindMaven, "cpp"), want: "generatePomFileForCppPublication"},
		{got: DescriptorTaskName(coordinate.KindIvy, "cpp"), want: "generateDescriptorFileForCppPublication"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("got %s, want %s", tt.got, tt.want)
		}
	}
}
