package geminianalyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"google.golang.org/api/option"

	"github.com/unimatric/admissions/core"
	"github.com/unimatric/admissions/core/analysis"
)

const (
	verifyScorePrompt = `You are an expert admission analyst specializing in verifying applicant scores and related information.

You will use the information provided to analyze the applicant's score and supporting details to determine the score's validity.
Answer only with JSON of the form {"is_valid": true|false, "analysis": "<detailed analysis>"}.

Applicant Score Data: %s
Applicant Responses: %s
Applicant Background: %s`

	summaryPrompt = `You are an admission officer of a federal university of technology.

Summarize the admission eligibility of the applicant below in one paragraph, mentioning strengths and weaknesses.
Answer only with JSON of the form {"eligibility_summary": "<summary>"}.

Predicted Score (out of 100): %.2f
Academic Background: %s
Extracurricular Activities: %s
Personal Statement: %s`
)

var errNoResult = errors.New("gemini returned no result")

// generator is the part of *genai.GenerativeModel used by the Analyzer.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type Analyzer struct {
	client  *genai.Client
	model   generator
	timeout time.Duration
}

var _ analysis.Analyzer = (*Analyzer)(nil)

func New(ctx context.Context, conf core.GeminiConfig) (*Analyzer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(conf.APIKey))
	if err != nil {
		return nil, errors.Wrap(err, "creating gemini client")
	}
	model := client.GenerativeModel(conf.Model)
	model.ResponseMIMEType = "application/json"

	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Analyzer{client: client, model: model, timeout: timeout}, nil
}

func (a *Analyzer) Close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}

// generate sends prompt and decodes the JSON answer into dst.
func (a *Analyzer) generate(ctx context.Context, prompt string, dst interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return errors.Wrap(err, "generating content")
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return errNoResult
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return errors.New("gemini response is not text")
	}

	clean := strings.Trim(string(text), "```json \n")
	if err := json.Unmarshal([]byte(clean), dst); err != nil {
		return errors.Wrap(err, "decoding gemini response")
	}
	return nil
}

func (a *Analyzer) VerifyScore(ctx context.Context, in analysis.ScoreVerificationInput) (analysis.ScoreVerification, error) {
	var res analysis.ScoreVerification
	prompt := fmt.Sprintf(verifyScorePrompt, in.ScoreData, in.ApplicantResponses, in.ApplicantBackground)
	if err := a.generate(ctx, prompt, &res); err != nil {
		return analysis.ScoreVerification{}, err
	}
	return res, nil
}

func (a *Analyzer) SummarizeEligibility(ctx context.Context, in analysis.SummaryInput) (analysis.Summary, error) {
	var res analysis.Summary
	prompt := fmt.Sprintf(summaryPrompt, *in.PredictedScore, in.AcademicBackground, in.ExtracurricularActivities,
		in.PersonalStatement)
	if err := a.generate(ctx, prompt, &res); err != nil {
		return analysis.Summary{}, err
	}
	if strings.TrimSpace(res.EligibilitySummary) == "" {
		return analysis.Summary{}, errNoResult
	}
	return res, nil
}
