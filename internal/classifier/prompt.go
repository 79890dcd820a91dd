// Package classifier asks a generative AI model to identify waste in a photo.
package classifier

// Prompt instructs the model to answer with raw JSON only
const Prompt = `Analyze this image of waste/trash.
You are an expert in Indian waste segregation rules.

Return ONLY raw JSON. Do not use Markdown formatting (no ` + "```json" + `).
The JSON must match this structure exactly:
{
  "recyclable": boolean,
  "itemName": "Short name of the item",
  "binType": "Green Bin (Wet) or Blue Bin (Dry) or Hazardous",
  "tips": ["Tip 1", "Tip 2"]
}`

// Analysis is the model's verdict for one image
type Analysis struct {
	Recyclable bool     `json:"recyclable"`
	ItemName   string   `json:"itemName"`
	BinType    string   `json:"binType"`
	Tips       []string `json:"tips"`
}
