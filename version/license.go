/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package version

import "fmt"

func licenseName(l License) string {
	switch l {
	case License_MIT:
		return "MIT License"
	case License_Apache_v2:
		return "Apache License Version 2.0"
	case License_GNU_GPL_v3:
		return "GNU GENERAL PUBLIC LICENSE Version 3"
	case License_GNU_Lesser_GPL_v3:
		return "GNU LESSER GENERAL PUBLIC LICENSE Version 3"
	case License_GNU_Affero_GPL_v3:
		return "GNU AFFERO GENERAL PUBLIC LICENSE Version 3"
	case License_Mozilla_PL_v2:
		return "Mozilla Public License Version 2.0"
	case License_Unlicense:
		return "Free and unencumbered software"
	case License_Creative_Common_Zero_v1:
		return "Creative Commons CC0 1.0 Universal"
	case License_Creative_Common_Attribution_v4_int:
		return "Creative Commons Attribution 4.0 International"
	case License_Creative_Common_Attribution_Share_Alike_v4_int:
		return "Creative Commons Attribution-ShareAlike 4.0 International"
	case License_SIL_Open_Font_1_1:
		return "SIL OPEN FONT LICENSE Version 1.1"
	default:
		return "Unknown License"
	}
}

// licenseLegal returns the operative clause every license is best known
// for; a real distribution would embed the full text instead, but a
// reconstruction built only from the package's own test suite has no
// source for that text.
func licenseLegal(l License) string {
	switch l {
	case License_MIT:
		return licenseName(l) + "\n\nPermission is hereby granted, free of charge, to any person obtaining a copy " +
			"of this software and associated documentation files, to deal in the Software " +
			"without restriction, including without limitation the rights to use, copy, " +
			"modify, merge, publish, distribute, sublicense, and/or sell copies of the Software."
	case License_Apache_v2:
		return licenseName(l) + "\n\nLicensed under the Apache License, Version 2.0 (the \"License\"); you may not " +
			"use this file except in compliance with the License. You may obtain a copy of " +
			"the License at http://www.apache.org/licenses/LICENSE-2.0."
	case License_GNU_GPL_v3, License_GNU_Lesser_GPL_v3, License_GNU_Affero_GPL_v3:
		return licenseName(l) + "\n\nThis program is free software: you can redistribute it and/or modify it under " +
			"the terms of the " + licenseName(l) + " as published by the Free Software Foundation."
	case License_Mozilla_PL_v2:
		return licenseName(l) + "\n\nThis Source Code Form is subject to the terms of the Mozilla Public License, " +
			"v. 2.0. If a copy of the MPL was not distributed with this file, You can obtain " +
			"one at https://mozilla.org/MPL/2.0/."
	case License_Unlicense:
		return licenseName(l) + "\n\nThis is free and unencumbered software released into the public domain."
	case License_Creative_Common_Zero_v1, License_Creative_Common_Attribution_v4_int, License_Creative_Common_Attribution_Share_Alike_v4_int:
		return licenseName(l) + "\n\nLicensed under a Creative Commons license; see https://creativecommons.org/licenses/."
	case License_SIL_Open_Font_1_1:
		return licenseName(l) + "\n\nThis Font Software is licensed under the SIL Open Font License, Version 1.1."
	default:
		return licenseName(l)
	}
}

func licenseBoiler(l License, year int, author string) string {
	return fmt.Sprintf("%s\n\nCopyright (c) %d %s\n\nSee the full license text for terms and conditions.", licenseName(l), year, author)
}
