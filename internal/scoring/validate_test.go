package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hr-screening/internal/types"
)

func TestValidateTemplate(t *testing.T) {
	valid := &types.JobTemplate{
		RoleName: "backend engineer",
		Skills: []types.TemplateSkill{
			{Keyword: "go", Importance: types.ImportanceCritical, Weight: 3},
			{Keyword: "docker", Importance: types.ImportancePreferred},
		},
	}
	assert.NoError(t, ValidateTemplate(valid))
}

func TestValidateTemplate_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		template *types.JobTemplate
	}{
		{
			name:     "missing role name",
			template: &types.JobTemplate{Skills: []types.TemplateSkill{{Keyword: "go", Importance: types.ImportanceCritical}}},
		},
		{
			name: "unknown importance",
			template: &types.JobTemplate{
				RoleName: "backend engineer",
				Skills:   []types.TemplateSkill{{Keyword: "go", Importance: "essential"}},
			},
		},
		{
			name: "negative weight",
			template: &types.JobTemplate{
				RoleName: "backend engineer",
				Skills:   []types.TemplateSkill{{Keyword: "go", Importance: types.ImportanceCritical, Weight: -1}},
			},
		},
		{
			name: "negative min years",
			template: &types.JobTemplate{
				RoleName: "backend engineer",
				Skills:   []types.TemplateSkill{{Keyword: "go", Importance: types.ImportanceCritical, MinYears: -2}},
			},
		},
		{
			name: "keyword empty after normalization",
			template: &types.JobTemplate{
				RoleName: "backend engineer",
				Skills:   []types.TemplateSkill{{Keyword: "???", Importance: types.ImportanceCritical}},
			},
		},
		{
			name: "duplicate keyword after normalization",
			template: &types.JobTemplate{
				RoleName: "backend engineer",
				Skills: []types.TemplateSkill{
					{Keyword: "Go", Importance: types.ImportanceCritical},
					{Keyword: "go", Importance: types.ImportancePreferred},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTemplate(tt.template)
			var invalid *ErrInvalidTemplate
			require.ErrorAs(t, err, &invalid)
			assert.NotEmpty(t, invalid.Field)
		})
	}
}
