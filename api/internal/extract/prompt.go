package extract

import (
	"fmt"
	"os"
	"strings"
)

// Prompt is sent with every image.
const Prompt = `This is a timetable image. Please extract the schedule information and return it as a JSON object with the following structure:
{
    "days": [
        {
            "day": "string",
            "classes": [
                {
                    "subject": "string",
                    "startTime": "string",
                    "endTime": "string",
                    "room": "string (optional)",
                    "professor": "string (optional)"
                }
            ]
        }
    ]
}

Important instructions:
1. Make sure subjects match the correct corresponding days
2. Do not include breaks or lunch breaks
3. Include all days from the timetable
4. Use 12-hour format with AM/PM for times (e.g., "9:30 AM", "2:30 PM")
5. Return only the JSON object, no additional text
6. Ensure day names are in short form (MON, TUE, etc.)
7. Make sure to extract all visible information from the image`

// LoadPrompt reads a prompt override. An empty path yields the built-in Prompt.
func LoadPrompt(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return Prompt, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt %s: %w", path, err)
	}
	p := strings.TrimSpace(string(b))
	if p == "" {
		return "", fmt.Errorf("prompt %s is empty", path)
	}
	return p, nil
}
