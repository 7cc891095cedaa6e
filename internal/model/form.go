package model

import "fmt"

// FormInput представляет одну отправку формы создания ссылки.
type FormInput struct {
	Company   string `json:"company"`
	Skill1    string `json:"skill1"`
	Skill2    string `json:"skill2"`
	Skill3    string `json:"skill3"`
	Skill4    string `json:"skill4"`
	Skill5    string `json:"skill5"`
	MyTitle   string `json:"mytitle"`
	YourTitle string `json:"yourtitle"`
	Slug      string `json:"slug"`
	Cloak     bool   `json:"cloak"`
	DryRun    bool   `json:"dry_run"`
}

// QueryParam пара ключ-значение для URL назначения.
type QueryParam struct {
	Key   string
	Value string
}

// QueryParams возвращает текстовые поля в фиксированном порядке:
// company, skill1..skill5, mytitle, yourtitle.
func (f FormInput) QueryParams() []QueryParam {
	return []QueryParam{
		{Key: "company", Value: f.Company},
		{Key: "skill1", Value: f.Skill1},
		{Key: "skill2", Value: f.Skill2},
		{Key: "skill3", Value: f.Skill3},
		{Key: "skill4", Value: f.Skill4},
		{Key: "skill5", Value: f.Skill5},
		{Key: "mytitle", Value: f.MyTitle},
		{Key: "yourtitle", Value: f.YourTitle},
	}
}

// Validate проверяет обязательные поля формы.
func (f FormInput) Validate() error {
	required := []QueryParam{
		{Key: "company", Value: f.Company},
		{Key: "skill1", Value: f.Skill1},
		{Key: "skill2", Value: f.Skill2},
	}
	for _, p := range required {
		if p.Value == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, p.Key)
		}
	}
	return nil
}
