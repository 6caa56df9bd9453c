package analysis

import "github.com/cloudwego/eino/schema"

// reportInstructions follows the document text in the single user message.
const reportInstructions = `You are an AI assistant specializing in industrial energy analysis and solar energy adoption recommendations. Your task is to analyze the provided industrial energy consumption data and create a comprehensive report with recommendations for solar energy adoption.

First, review the industrial energy data provided above.

Please follow these steps to complete your analysis. For each step, wrap your thought process inside <thought_process> tags before providing the final output for that step.

1. Bill Analysis:
 Inside <thought_process> tags:
 - List out key metrics from the industrial electricity bills, including total consumption, peak/off-peak usage, and cost per unit.
 - Note any patterns or trends you observe in the billing data.
 - Highlight any unusual spikes or dips in energy consumption.
 Provide a brief summary of your findings from the bill analysis.

2. Hourly Usage Calculation:
 Inside <thought_process> tags:
 - List out hourly energy consumption patterns for the entire month.
 - Calculate and note the average energy usage per hour.
 - Identify and list peak usage hours and any patterns in consumption.
 - Consider possible consumer behaviors affecting these patterns.
 Present a clear breakdown of hourly usage, including the average consumption per hour and any notable patterns or peak usage times.

3. Solar Panel Comparison:
 Inside <thought_process> tags:
 - Use the provided solar panel specifications and location information to simulate potential solar power generation. List out key factors and assumptions.
 - Compare this potential output against the calculated hourly consumption, noting any discrepancies or matches.
 - Calculate and list the monthly cost savings by offsetting grid electricity with solar power.
 - Consider and list factors that might affect solar panel efficiency or output in this specific case.
 Present your findings on potential solar energy output, cost savings, and how well it matches the facility's energy needs.

4. Environmental Impact Report:
 Inside <thought_process> tags:
 - Calculate and list the potential reduction in carbon footprint by adopting solar energy.
 - Research and list other environmental benefits of solar adoption for this specific case.
 - Calculate and note the equivalent reduction in fossil fuel usage or other relevant metrics.
 Provide a clear report on the environmental benefits of solar adoption, including specific metrics and comparisons where possible.

5. Final Summary and Recommendations:
 Inside <thought_process> tags:
 - List key points from all the data and analyses from the previous steps.
 - Note financial, operational, and environmental aspects of solar adoption for this facility.
 - List any potential challenges or areas that require further investigation.
 - Develop and list clear, actionable recommendations based on your analysis.

 Compile your final summary and recommendations within <analysis_report> tags. Your report should include:
 - A brief overview of the current energy consumption situation
 - Key findings from each analysis step
 - Clear recommendations on whether the industrial facility should adopt solar energy
 - Suggested next steps or additional considerations for optimizing energy usage

 Ensure that your report is well-structured, easy to read, and provides actionable insights for decision-makers.`

// BuildMessages returns the single-turn conversation sent for text.
func BuildMessages(text string) []*schema.Message {
	return []*schema.Message{
		schema.UserMessage(text + "\n\n" + reportInstructions),
	}
}
