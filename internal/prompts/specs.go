package prompts

const triageSpec = `Respond with a JSON object matching this exact structure:

{
  "category": "<category>"
}

Field constraints:
- category: Exactly one of the twelve listed category names, spelled
  exactly as given (e.g., "Health & Sanitation", not "health").

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Never invent category names outside the fixed list
- When genuinely uncertain, use "Miscellaneous"`

const verifySpec = `Respond with a JSON object matching this exact structure:

{
  "is_verified": false,
  "confidence_score": 0.0,
  "analysis": "<explanation>"
}

Field constraints:
- is_verified: true only when the evidence clearly shows the reported
  issue in a resolved state. Comparative judgments (before and after
  photos) require visible improvement of the specific problem.
- confidence_score: Number between 0.0 and 1.0 reflecting how certain
  you are in the is_verified judgment. Clear, unambiguous evidence
  warrants 0.8 or above; plausible but imperfect evidence 0.6 to 0.8;
  anything weaker below 0.6.
- analysis: Brief explanation of what the evidence shows and why it
  does or does not demonstrate resolution.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Judge only the problem described in the complaint, not general scene
  quality
- When evidence is missing, irrelevant, or inconclusive, set
  is_verified to false`

const sentimentSpec = `Respond with a JSON object matching this exact structure:

{
  "summary": "<narrative>"
}

Field constraints:
- summary: 2-3 sentence plain-language narrative of the public
  reaction, grounded in the counts provided.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Do not restate the raw counts; characterize them
- Do not speculate beyond the provided data`

var specs = map[Stage]string{
	StageTriage:    triageSpec,
	StageVerify:    verifySpec,
	StageSentiment: sentimentSpec,
}

// Spec returns the hardcoded specification for an oracle stage.
// Specifications define the expected output format and behavioral constraints.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
