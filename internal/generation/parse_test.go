package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare object", in: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "plain fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "surrounding prose", in: "好的，结果如下：{\"a\":1} 以上。", want: `{"a":1}`},
		{name: "no object", in: "无法提取", want: "无法提取"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extractJSON(tt.in, '{', '}'))
		})
	}
}

func TestParsePatientInfo(t *testing.T) {
	t.Parallel()

	t.Run("complete response with defaults", func(t *testing.T) {
		t.Parallel()
		resp := "```json\n" + `{
			"name": "王五",
			"gender": "男",
			"age": "72岁",
			"admission_date": "2025-03-03",
			"diagnosis": "脑梗死",
			"allergy_history": ""
		}` + "\n```"

		info, err := ParsePatientInfo(resp)
		require.NoError(t, err)
		assert.Equal(t, "王五", info.Name)
		assert.Equal(t, 72, info.Age)
		assert.Equal(t, "2025-03-03", info.AdmissionDate)
		assert.Equal(t, DefaultAllergyHistory, info.AllergyHistory)
		assert.Empty(t, info.PastHistory)
	})

	t.Run("numeric age and trailing comma repaired", func(t *testing.T) {
		t.Parallel()
		resp := `{"name": "赵六", "gender": "女", "age": 58, "admission_date": "2025-02-01", "allergy_history": "青霉素过敏",}`

		info, err := ParsePatientInfo(resp)
		require.NoError(t, err)
		assert.Equal(t, 58, info.Age)
		assert.Equal(t, "青霉素过敏", info.AllergyHistory)
	})

	t.Run("missing required fields", func(t *testing.T) {
		t.Parallel()
		_, err := ParsePatientInfo(`{"name": "孙七", "gender": ""}`)
		require.ErrorIs(t, err, ErrInvalidResponse)
		assert.Contains(t, err.Error(), "gender, age, admission_date")
	})

	t.Run("empty response", func(t *testing.T) {
		t.Parallel()
		_, err := ParsePatientInfo("  ")
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})
}

func TestParseRehabPlan(t *testing.T) {
	t.Parallel()

	t.Run("drops unnamed items", func(t *testing.T) {
		t.Parallel()
		resp := `{"short_term_goals": "独立坐位平衡", "long_term_goals": "辅助下步行",
			"training_plan": [{"name": "坐位平衡训练", "frequency": "每日2次"}, {"name": " "}]}`

		draft, err := ParseRehabPlan(resp)
		require.NoError(t, err)
		assert.False(t, draft.Fallback)
		require.Len(t, draft.TrainingPlan, 1)
		assert.Equal(t, "坐位平衡训练", draft.TrainingPlan[0].Name)
	})

	t.Run("empty plan is invalid", func(t *testing.T) {
		t.Parallel()
		_, err := ParseRehabPlan(`{"training_plan": []}`)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("default plan", func(t *testing.T) {
		t.Parallel()
		draft := DefaultRehabPlanDraft()
		assert.True(t, draft.Fallback)
		assert.Len(t, draft.TrainingPlan, 3)
	})
}

func TestParsePhrases(t *testing.T) {
	t.Parallel()

	resp := "以下是分类结果：\n" + `[
		{"content": "嘱患者家属加强陪护，防跌倒。", "category": "管理与监测-风险防控"},
		{"content": "嘱患者家属加强陪护，防跌倒。", "category": "管理与监测-风险防控"},
		{"content": "继续针刺治疗。", "category": " 治疗方案制定 - 中医特色治疗 "},
		{"content": "患者一般情况可。", "category": "其他-杂项"},
		{"content": "", "category": "管理与监测-病情监测"},
		{"content": "监测血压变化。", "category": "管理与监测"}
	]`

	phrases, err := ParsePhrases(resp)
	require.NoError(t, err)
	assert.Equal(t, []ClassifiedPhrase{
		{Content: "嘱患者家属加强陪护，防跌倒。", Category: "管理与监测-风险防控"},
		{Content: "继续针刺治疗。", Category: "治疗方案制定-中医特色治疗"},
	}, phrases)
}

func TestParsePhrasesNotAnArray(t *testing.T) {
	t.Parallel()

	_, err := ParsePhrases(`{"content": "x"}`)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
