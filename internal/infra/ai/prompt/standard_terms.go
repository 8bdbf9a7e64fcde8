package prompt

// StandardTerms is the organization policy every contract is compared against.
const StandardTerms = `
1. PAYMENT TERMS
   1.1 Invoices are payable Net 30 from receipt of a correct invoice. Net 45 or longer is a deviation.
   1.2 No late payment interest above 1% per month.
   1.3 Price increases require 90 days written notice and are capped at 3% per contract year.

2. TERM AND TERMINATION
   2.1 We may terminate for convenience with 30 days written notice. [HIGH SEVERITY if absent]
   2.2 Either party may terminate for material breach not cured within 30 days.
   2.3 Auto-renewal is allowed only with a 60 day opt-out notice window.

3. LIMITATION OF LIABILITY
   3.1 The vendor's aggregate liability cap must be at least 2x the annual contract value. [HIGH SEVERITY]
   3.2 Caps must not apply to breaches of confidentiality, data protection, indemnification or gross negligence. [HIGH SEVERITY]
   3.3 Our liability is capped at fees paid in the preceding 12 months.

4. INDEMNIFICATION
   4.1 The vendor indemnifies us against third-party IP infringement claims. [HIGH SEVERITY]
   4.2 Mutual indemnification for bodily injury and property damage caused by negligence.

5. INSURANCE
   5.1 Commercial general liability of at least $2M per occurrence.
   5.2 Cyber liability of at least $10M per claim. [HIGH SEVERITY]
   5.3 Professional errors and omissions of at least $5M.
   5.4 Certificates of insurance on request.

6. DATA PROTECTION AND SECURITY
   6.1 The vendor processes personal data only on our documented instructions and signs our Data Processing Addendum. [HIGH SEVERITY]
   6.2 Security incidents affecting our data must be notified within 72 hours. [HIGH SEVERITY]
   6.3 SOC 2 Type II or ISO 27001 certification, maintained for the whole term.
   6.4 Data is returned or deleted within 30 days of termination.

7. INTELLECTUAL PROPERTY
   7.1 Deliverables created specifically for us are owned by us on payment. [HIGH SEVERITY]
   7.2 The vendor keeps ownership of pre-existing tools and grants us a perpetual license to use them with the deliverables.

8. CONFIDENTIALITY
   8.1 Mutual confidentiality obligations survive termination for at least 5 years.

9. SERVICE LEVELS
   9.1 Availability of at least 99.9% per calendar month for hosted services.
   9.2 Service credits of at least 10% of monthly fees for each 0.1% below target.

10. GOVERNING LAW AND DISPUTES
   10.1 Governing law is the law of our state of incorporation.
   10.2 Disputes go to the courts of that state; mandatory arbitration is a deviation.

11. ASSIGNMENT
   11.1 The vendor may not assign or subcontract without our prior written consent.

12. AUDIT
   12.1 We may audit the vendor's compliance with this agreement once per year on 30 days notice.
`
