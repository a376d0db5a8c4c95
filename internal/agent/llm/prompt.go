package llm

const extractionInstruction = `This text is a resume. Please identify and extract the following information:
    Note: Follow this instruction strictly: Please do not enclose the response in '` + "```json" + `' in the beginning and '` + "```" + `' at the end.
    * Name (full name, sentence case)
    * Email address
    * Phone number (without country code)
    * IT Skills (technical skills in computer science and related fields, use sentence case,without [], in case no IT skills are mentioned or found return NONE)
      * Skills like: Strong problem-solving, analytical skills, communication, collaboration, leadership, critical thinking, attention to detail etc are not IT skills and should be in the other skills section.
    * Now add the following columns:
      * Programming: (Programming Skills from the IT skills, sentence case, If none found return NONE)
      * Front End: (Front end technology Skills from the IT skills, sentence case, If none found return NONE)
      * Back End: (Back end technology Skills from the IT skills, sentence case, If none found return NONE)
      * Database: (Database Skills from the IT skills, sentence case, If none found return NONE)
      * AI/ML: (AI/ML Skills from the IT skills, sentence case, If none found return NONE)
    * Other Skills (non-technical skills, use sentence case to rewrite each skill, if required, without [] and improve the terms if required and do not include hobbies or sports)
    * Experience (for each and every experience containing:(do not consider Education as experience and return NONE if no experience found)
        * Title (job title, sentence case)
        * Organization (company name, sentence case)
        * Duration (employment period, e.g., "Jan 2020 - Dec 2023") all three info in one line for each experience.
        eg: "Software Developer at Google, Jan 2020 - Dec 2023" , NOTE: each experience should be separated by a new line and the value should be a string.
    The output should be in proper JSON format. Note: Follow this instruction strictly: Please do not enclose 
    the response in '` + "```json" + `' in the beginning and '` + "```" + `' at the end.`

// BuildPrompt appends the résumé text to the fixed extraction instruction.
func BuildPrompt(resumeText string) string {
	return extractionInstruction + resumeText
}
